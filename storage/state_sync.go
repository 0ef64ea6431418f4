package storage

import (
	"github.com/sablelabs/sable-client-go/model/sable"
)

// StateSync applies synchronization batches from the node to the store.
type StateSync interface {
	// Apply executes one sync batch as a single atomic unit across the sync
	// cursor, both note tables, the block header table, the MMR node table
	// and the transaction table. If any step fails, no table reflects the
	// batch.
	// Expected errors during normal operations:
	//   - storage.ErrLengthMismatch if any paired slices of the update differ in length
	//   - storage.ErrInvalidTransition if the update would move the cursor backwards
	//   - storage.ErrNotFound if a confirmed transaction id is not stored
	Apply(update *sable.StateSyncUpdate) error
}
