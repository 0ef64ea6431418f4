package storage

import (
	"github.com/sablelabs/sable-client-go/model/sable"
)

// Notes represents persistent storage for input and output notes. The two
// tables share one record shape; a note transferred to the own account
// appears in both.
//
// Query results are read-time projections: the note script payload and the
// consuming account id are resolved from the script and transaction tables
// when reading and are never written back to the note rows.
type Notes interface {
	// StoreInputNote and StoreOutputNote insert a note, atomically together
	// with the payload of the script its details reference. The script put is
	// content-addressed and idempotent; the note insert is not.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if the note id is already stored in the table
	//   - storage.ErrDataMismatch if the script hash is stored with a different payload
	StoreInputNote(note *sable.NoteRecord, script []byte) error
	StoreOutputNote(note *sable.NoteRecord, script []byte) error

	// InputNotes and OutputNotes return the notes of one table matching the
	// filter. Notes returns both tables, input notes first.
	InputNotes(filter sable.NoteFilter) ([]*sable.Note, error)
	OutputNotes(filter sable.NoteFilter) ([]*sable.Note, error)
	Notes(filter sable.NoteFilter) ([]*sable.Note, error)

	// ByIDs returns the notes with the given ids from both tables. Ids with
	// no stored note are skipped.
	ByIDs(noteIDs []sable.Digest) ([]*sable.Note, error)

	// UnspentNullifiers returns the deduplicated, sorted nullifiers of every
	// note that is Committed or Processing, i.e. every tracked note that
	// could still be consumed on-chain.
	UnspentNullifiers() ([]sable.Nullifier, error)

	// MarkConsumerTransaction records the given transaction as the consumer
	// of a note and moves the note to Processing. Both tables are checked;
	// a note already Consumed rejects the update.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if neither table stores the note
	//   - storage.ErrInvalidTransition if the note is already Consumed
	MarkConsumerTransaction(noteID sable.Digest, transactionID sable.Digest, submittedAt uint64) error
}
