package storage

import (
	"github.com/sablelabs/sable-client-go/model/sable"
)

// Transactions represents persistent storage for locally built transactions
// and the content-addressed transaction scripts they reference.
type Transactions interface {
	// Store appends a transaction record. CommitHeight must be unset; it is
	// only ever written by the sync coordinator.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if the transaction id is already stored
	Store(tx *sable.TransactionRecord) error

	// StoreScript inserts a content-addressed transaction script. Re-inserting
	// an existing hash with the identical payload is a no-op.
	// Expected errors during normal operations:
	//   - storage.ErrDataMismatch if the hash is stored with a different payload
	StoreScript(script *sable.TransactionScript) error

	// ByFilter returns the stored transactions matching the filter, with
	// their script payloads resolved.
	ByFilter(filter sable.TransactionFilter) ([]*sable.Transaction, error)
}
