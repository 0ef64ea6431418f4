package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"golang.org/x/exp/slices"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/storage"
	"github.com/sablelabs/sable-client-go/storage/badger/operation"
)

// Notes implements the note store around a badger DB, covering the input and
// output note tables and the content-addressed note script table.
//
// Read operations return projections that resolve the script payload and the
// consuming account at read time; the stored rows only carry the script hash
// and the consumer transaction id.
type Notes struct {
	db *badger.DB
}

func NewNotes(db *badger.DB) *Notes {
	n := &Notes{
		db: db,
	}
	return n
}

// StoreInputNote stores one input note together with its script payload. The
// note insert and the script insert commit as one unit; the script insert
// itself is idempotent.
func (n *Notes) StoreInputNote(note *sable.NoteRecord, script []byte) error {
	return operation.RetryOnConflict(n.db.Update, storeNoteTx(note, script, operation.InsertInputNote))
}

// StoreOutputNote stores one output note together with its script payload,
// with the same atomicity as StoreInputNote.
func (n *Notes) StoreOutputNote(note *sable.NoteRecord, script []byte) error {
	return operation.RetryOnConflict(n.db.Update, storeNoteTx(note, script, operation.InsertOutputNote))
}

// storeNoteTx composes the note insert with the script insert for the note's
// script hash. Notes without a script skip the script table.
func storeNoteTx(note *sable.NoteRecord, script []byte, insertNote func(*sable.NoteRecord) func(*badger.Txn) error) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		err := insertNote(note)(tx)
		if err != nil {
			return fmt.Errorf("could not insert note %v: %w", note.NoteID, err)
		}

		if note.Details.ScriptHash == sable.ZeroDigest {
			return nil
		}

		noteScript := &sable.NoteScript{
			ScriptHash: note.Details.ScriptHash,
			Script:     script,
		}
		err = operation.InsertNoteScript(noteScript)(tx)
		if err != nil {
			return fmt.Errorf("could not insert note script %v: %w", note.Details.ScriptHash, err)
		}

		return nil
	}
}

// InputNotes returns all input notes matching the given status filter.
func (n *Notes) InputNotes(filter sable.NoteFilter) ([]*sable.Note, error) {
	tx := n.db.NewTransaction(false)
	defer tx.Discard()

	var records []*sable.NoteRecord
	err := operation.FindInputNotes(filter, &records)(tx)
	if err != nil {
		return nil, fmt.Errorf("could not find input notes: %w", err)
	}

	return enrichNotes(tx, records)
}

// OutputNotes returns all output notes matching the given status filter.
func (n *Notes) OutputNotes(filter sable.NoteFilter) ([]*sable.Note, error) {
	tx := n.db.NewTransaction(false)
	defer tx.Discard()

	var records []*sable.NoteRecord
	err := operation.FindOutputNotes(filter, &records)(tx)
	if err != nil {
		return nil, fmt.Errorf("could not find output notes: %w", err)
	}

	return enrichNotes(tx, records)
}

// Notes returns all notes of both tables matching the given status filter,
// input notes first.
func (n *Notes) Notes(filter sable.NoteFilter) ([]*sable.Note, error) {
	tx := n.db.NewTransaction(false)
	defer tx.Discard()

	var records []*sable.NoteRecord
	err := operation.FindInputNotes(filter, &records)(tx)
	if err != nil {
		return nil, fmt.Errorf("could not find input notes: %w", err)
	}
	err = operation.FindOutputNotes(filter, &records)(tx)
	if err != nil {
		return nil, fmt.Errorf("could not find output notes: %w", err)
	}

	return enrichNotes(tx, records)
}

// ByIDs returns the notes with the given ids, from either table. Unknown ids
// are skipped, not errors, as callers pass id lists assembled from chain
// data that over-approximates the client's notes.
func (n *Notes) ByIDs(noteIDs []sable.Digest) ([]*sable.Note, error) {
	tx := n.db.NewTransaction(false)
	defer tx.Discard()

	records := make([]*sable.NoteRecord, 0, len(noteIDs))
	for _, noteID := range noteIDs {
		var record sable.NoteRecord
		err := operation.RetrieveInputNote(noteID, &record)(tx)
		if errors.Is(err, storage.ErrNotFound) {
			err = operation.RetrieveOutputNote(noteID, &record)(tx)
		}
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not retrieve note %v: %w", noteID, err)
		}
		records = append(records, &record)
	}

	return enrichNotes(tx, records)
}

// UnspentNullifiers returns the nullifiers of all notes that could still be
// spent: committed or processing, in either table, with the nullifier not
// yet observed on-chain. Nullifiers shared between tables appear once, and
// the result is sorted for stable node queries.
func (n *Notes) UnspentNullifiers() ([]sable.Nullifier, error) {
	tx := n.db.NewTransaction(false)
	defer tx.Discard()

	var records []*sable.NoteRecord
	err := operation.FindInputNotes(sable.NoteFilterAll, &records)(tx)
	if err != nil {
		return nil, fmt.Errorf("could not find input notes: %w", err)
	}
	err = operation.FindOutputNotes(sable.NoteFilterAll, &records)(tx)
	if err != nil {
		return nil, fmt.Errorf("could not find output notes: %w", err)
	}

	seen := make(map[sable.Nullifier]struct{})
	var nullifiers []sable.Nullifier
	for _, record := range records {
		if record.Status != sable.NoteStatusCommitted && record.Status != sable.NoteStatusProcessing {
			continue
		}
		nullifier := record.Details.Nullifier
		if _, ok := seen[nullifier]; ok {
			continue
		}
		seen[nullifier] = struct{}{}
		nullifiers = append(nullifiers, nullifier)
	}
	slices.Sort(nullifiers)

	return nullifiers, nil
}

// MarkConsumerTransaction records the transaction spending the given note,
// moving the note to processing. Both note tables are checked, as a note id
// is unique across them only by construction. Re-marking a processing note
// replaces the consumer transaction; a consumed note can no longer be spent.
func (n *Notes) MarkConsumerTransaction(noteID sable.Digest, transactionID sable.Digest, submittedAt uint64) error {
	return operation.RetryOnConflict(n.db.Update, func(tx *badger.Txn) error {

		marked := false

		mark := func(
			retrieveNote func(sable.Digest, *sable.NoteRecord) func(*badger.Txn) error,
			updateNote func(*sable.NoteRecord) func(*badger.Txn) error,
		) error {
			var note sable.NoteRecord
			err := retrieveNote(noteID, &note)(tx)
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("could not retrieve note %v: %w", noteID, err)
			}

			if note.Status == sable.NoteStatusConsumed {
				return fmt.Errorf("note %v is already consumed: %w", noteID, storage.ErrInvalidTransition)
			}

			consumer := transactionID
			submitted := submittedAt
			note.ConsumerTransactionID = &consumer
			note.SubmittedAt = &submitted
			if note.Status.CanTransitionTo(sable.NoteStatusProcessing) {
				note.Status = sable.NoteStatusProcessing
			}

			err = updateNote(&note)(tx)
			if err != nil {
				return fmt.Errorf("could not update note %v: %w", noteID, err)
			}
			marked = true
			return nil
		}

		err := mark(operation.RetrieveInputNote, operation.UpdateInputNote)
		if err != nil {
			return err
		}
		err = mark(operation.RetrieveOutputNote, operation.UpdateOutputNote)
		if err != nil {
			return err
		}

		if !marked {
			return fmt.Errorf("note %v: %w", noteID, storage.ErrNotFound)
		}

		return nil
	})
}

// enrichNotes resolves the read-time projection of every given record within
// the same transaction scope.
func enrichNotes(tx *badger.Txn, records []*sable.NoteRecord) ([]*sable.Note, error) {
	notes := make([]*sable.Note, 0, len(records))
	for _, record := range records {
		note, err := enrichNote(tx, record)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// enrichNote resolves the script payload and the consuming account of one
// stored note record. The stored record itself is not modified.
func enrichNote(tx *badger.Txn, record *sable.NoteRecord) (*sable.Note, error) {
	note := &sable.Note{
		NoteRecord: *record,
	}

	if record.Details.ScriptHash != sable.ZeroDigest {
		var script sable.NoteScript
		err := operation.RetrieveNoteScript(record.Details.ScriptHash, &script)(tx)
		if err != nil {
			return nil, fmt.Errorf("could not resolve script %v of note %v: %w",
				record.Details.ScriptHash, record.NoteID, err)
		}
		note.Script = script.Script
	}

	if record.ConsumerTransactionID != nil {
		var transaction sable.TransactionRecord
		err := operation.RetrieveTransaction(*record.ConsumerTransactionID, &transaction)(tx)
		if err != nil {
			return nil, fmt.Errorf("could not resolve consumer transaction %v of note %v: %w",
				*record.ConsumerTransactionID, record.NoteID, err)
		}
		consumerAccountID := transaction.AccountID
		note.ConsumerAccountID = &consumerAccountID
	}

	return note, nil
}
