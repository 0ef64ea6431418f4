package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/module"
	"github.com/sablelabs/sable-client-go/storage/badger/operation"
	"github.com/sablelabs/sable-client-go/storage/badger/procedure"
)

// StateSync implements the sync coordinator around a badger DB. Each batch
// is applied inside a single read-write transaction, so a failing batch
// leaves no trace in any table.
type StateSync struct {
	log     zerolog.Logger
	metrics module.SyncMetrics
	db      *badger.DB
}

func NewStateSync(log zerolog.Logger, collector module.SyncMetrics, db *badger.DB) *StateSync {
	s := &StateSync{
		log:     log.With().Str("component", "state_sync").Logger(),
		metrics: collector,
		db:      db,
	}
	return s
}

// Apply executes one sync batch as a single atomic unit.
func (s *StateSync) Apply(update *sable.StateSyncUpdate) error {
	blockNum := update.BlockHeader.BlockNum

	err := operation.TerminateOnFullDisk(
		operation.RetryOnConflict(s.db.Update, procedure.ApplyStateSync(update)))
	if err != nil {
		return fmt.Errorf("could not apply sync batch for block %d: %w", blockNum, err)
	}

	notes := uint(len(update.Nullifiers) + len(update.InputNoteIDs) + len(update.OutputNoteIDs))
	s.metrics.SyncHeight(blockNum)
	s.metrics.SyncBatchApplied(notes)

	s.log.Info().
		Uint64("block_num", blockNum).
		Int("nullifiers", len(update.Nullifiers)).
		Int("mmr_nodes", len(update.MMRNodes)).
		Int("input_notes", len(update.InputNoteIDs)).
		Int("output_notes", len(update.OutputNoteIDs)).
		Int("transactions", len(update.TransactionIDs)).
		Msg("sync batch applied")

	return nil
}
