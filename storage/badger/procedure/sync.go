package procedure

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/storage"
	"github.com/sablelabs/sable-client-go/storage/badger/operation"
)

// ApplyStateSync applies one sync batch as a single transaction. All table
// changes of the batch commit together or not at all; the caller provides
// the transaction scope.
//
// The batch moves the sync cursor to the batch's block number, consumes the
// notes whose nullifiers appeared on-chain, stores the new block header and
// authentication nodes, records inclusion proofs for committed notes, and
// sets the commit height of confirmed transactions.
func ApplyStateSync(update *sable.StateSyncUpdate) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		err := checkStateSyncUpdate(update)
		if err != nil {
			return fmt.Errorf("invalid sync batch: %w", err)
		}

		// move the sync cursor to the new block number, keeping the
		// subscribed note tags; the cursor must never move backwards
		var state sable.SyncState
		err = operation.RetrieveSyncState(&state)(tx)
		if err != nil {
			return fmt.Errorf("could not retrieve sync state: %w", err)
		}
		blockNum := update.BlockHeader.BlockNum
		if blockNum < state.BlockNum {
			return fmt.Errorf("sync cursor would move from %d back to %d: %w",
				state.BlockNum, blockNum, storage.ErrInvalidTransition)
		}
		state.BlockNum = blockNum
		err = operation.UpdateSyncState(&state)(tx)
		if err != nil {
			return fmt.Errorf("could not update sync state: %w", err)
		}

		// consume the notes whose nullifiers appeared on-chain
		err = consumeNotes(update.Nullifiers, update.NullifierBlockNums)(tx)
		if err != nil {
			return fmt.Errorf("could not consume notes: %w", err)
		}

		// store the new block header; an empty batch re-delivers the header
		// of the current chain tip, which is already stored
		err = operation.SkipDuplicates(operation.InsertBlockHeader(&update.BlockHeader))(tx)
		if err != nil {
			return fmt.Errorf("could not insert block header: %w", err)
		}

		// store the new authentication nodes
		for i, index := range update.MMRNodeIndices {
			err = operation.InsertChainMMRNode(index, update.MMRNodes[i])(tx)
			if err != nil {
				return fmt.Errorf("could not insert chain MMR node %d: %w", index, err)
			}
		}

		// record inclusion proofs for notes committed by this block
		err = commitOutputNotes(update.OutputNoteIDs, update.OutputNoteProofs)(tx)
		if err != nil {
			return fmt.Errorf("could not commit output notes: %w", err)
		}
		err = commitInputNotes(update.InputNoteIDs, update.InputNoteProofs, update.InputNoteMetadata)(tx)
		if err != nil {
			return fmt.Errorf("could not commit input notes: %w", err)
		}

		// set the commit height of transactions confirmed by this block
		for i, transactionID := range update.TransactionIDs {
			var transaction sable.TransactionRecord
			err = operation.RetrieveTransaction(transactionID, &transaction)(tx)
			if err != nil {
				return fmt.Errorf("could not retrieve transaction %v: %w", transactionID, err)
			}
			commitHeight := update.TransactionBlockNums[i]
			transaction.CommitHeight = &commitHeight
			err = operation.UpdateTransaction(&transaction)(tx)
			if err != nil {
				return fmt.Errorf("could not update transaction %v: %w", transactionID, err)
			}
		}

		return nil
	}
}

// checkStateSyncUpdate verifies that all paired slices of the batch have
// matching lengths, before any of the batch is applied.
func checkStateSyncUpdate(update *sable.StateSyncUpdate) error {
	if len(update.Nullifiers) != len(update.NullifierBlockNums) {
		return fmt.Errorf("%d nullifiers with %d block numbers: %w",
			len(update.Nullifiers), len(update.NullifierBlockNums), storage.ErrLengthMismatch)
	}
	if len(update.MMRNodeIndices) != len(update.MMRNodes) {
		return fmt.Errorf("%d MMR node indices with %d nodes: %w",
			len(update.MMRNodeIndices), len(update.MMRNodes), storage.ErrLengthMismatch)
	}
	if len(update.OutputNoteIDs) != len(update.OutputNoteProofs) {
		return fmt.Errorf("%d output note ids with %d proofs: %w",
			len(update.OutputNoteIDs), len(update.OutputNoteProofs), storage.ErrLengthMismatch)
	}
	if len(update.InputNoteIDs) != len(update.InputNoteProofs) {
		return fmt.Errorf("%d input note ids with %d proofs: %w",
			len(update.InputNoteIDs), len(update.InputNoteProofs), storage.ErrLengthMismatch)
	}
	if len(update.InputNoteIDs) != len(update.InputNoteMetadata) {
		return fmt.Errorf("%d input note ids with %d metadata entries: %w",
			len(update.InputNoteIDs), len(update.InputNoteMetadata), storage.ErrLengthMismatch)
	}
	if len(update.TransactionIDs) != len(update.TransactionBlockNums) {
		return fmt.Errorf("%d transaction ids with %d block numbers: %w",
			len(update.TransactionIDs), len(update.TransactionBlockNums), storage.ErrLengthMismatch)
	}
	return nil
}

// consumeNotes marks every note whose nullifier appears in the given list as
// consumed, recording the block number at which the nullifier was observed.
// Notes that are already consumed keep their original nullifier height.
func consumeNotes(nullifiers []sable.Nullifier, blockNums []uint64) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		if len(nullifiers) == 0 {
			return nil
		}

		heights := make(map[sable.Nullifier]uint64, len(nullifiers))
		for i, nullifier := range nullifiers {
			heights[nullifier] = blockNums[i]
		}

		consume := func(notes []*sable.NoteRecord, updateNote func(*sable.NoteRecord) func(*badger.Txn) error) error {
			for _, note := range notes {
				height, ok := heights[note.Details.Nullifier]
				if !ok {
					continue
				}
				if !note.Status.CanTransitionTo(sable.NoteStatusConsumed) {
					continue
				}
				nullifierHeight := height
				note.Status = sable.NoteStatusConsumed
				note.NullifierHeight = &nullifierHeight
				err := updateNote(note)(tx)
				if err != nil {
					return fmt.Errorf("could not update note %v: %w", note.NoteID, err)
				}
			}
			return nil
		}

		var inputNotes []*sable.NoteRecord
		err := operation.FindInputNotes(sable.NoteFilterAll, &inputNotes)(tx)
		if err != nil {
			return fmt.Errorf("could not find input notes: %w", err)
		}
		err = consume(inputNotes, operation.UpdateInputNote)
		if err != nil {
			return fmt.Errorf("could not consume input notes: %w", err)
		}

		var outputNotes []*sable.NoteRecord
		err = operation.FindOutputNotes(sable.NoteFilterAll, &outputNotes)(tx)
		if err != nil {
			return fmt.Errorf("could not find output notes: %w", err)
		}
		err = consume(outputNotes, operation.UpdateOutputNote)
		if err != nil {
			return fmt.Errorf("could not consume output notes: %w", err)
		}

		return nil
	}
}

// commitOutputNotes stores the inclusion proof of each listed output note
// and moves its status to committed. Output note ids the store does not
// track are skipped, as the subscribed note tags over-approximate the
// client's notes. A note that already advanced past committed keeps its
// status, only the proof is recorded.
func commitOutputNotes(noteIDs []sable.Digest, proofs [][]byte) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		for i, noteID := range noteIDs {
			var note sable.NoteRecord
			err := operation.RetrieveOutputNote(noteID, &note)(tx)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("could not retrieve output note %v: %w", noteID, err)
			}
			note.InclusionProof = proofs[i]
			if note.Status.CanTransitionTo(sable.NoteStatusCommitted) {
				note.Status = sable.NoteStatusCommitted
			}
			err = operation.UpdateOutputNote(&note)(tx)
			if err != nil {
				return fmt.Errorf("could not update output note %v: %w", noteID, err)
			}
		}
		return nil
	}
}

// commitInputNotes stores the inclusion proof and chain metadata of each
// listed input note and moves its status to committed, with the same
// skip-unknown and no-backwards rules as output notes.
func commitInputNotes(noteIDs []sable.Digest, proofs [][]byte, metadata [][]byte) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		for i, noteID := range noteIDs {
			var note sable.NoteRecord
			err := operation.RetrieveInputNote(noteID, &note)(tx)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("could not retrieve input note %v: %w", noteID, err)
			}
			note.InclusionProof = proofs[i]
			note.Metadata = metadata[i]
			if note.Status.CanTransitionTo(sable.NoteStatusCommitted) {
				note.Status = sable.NoteStatusCommitted
			}
			err = operation.UpdateInputNote(&note)(tx)
			if err != nil {
				return fmt.Errorf("could not update input note %v: %w", noteID, err)
			}
		}
		return nil
	}
}
