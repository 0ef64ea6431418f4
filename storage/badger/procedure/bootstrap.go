package procedure

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/storage"
	"github.com/sablelabs/sable-client-go/storage/badger/operation"
)

// Bootstrap seeds the singleton sync state row on a fresh database. Opening
// an already bootstrapped database leaves the stored state untouched, so the
// procedure is safe to run on every store initialization.
func Bootstrap() func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		// check whether the sync state row was seeded before
		var state sable.SyncState
		err := operation.RetrieveSyncState(&state)(tx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("could not check sync state: %w", err)
		}

		// a fresh database starts at block zero with no subscribed tags
		state = sable.SyncState{
			BlockNum: 0,
			Tags:     []sable.NoteTag{},
		}
		err = operation.InsertSyncState(&state)(tx)
		if err != nil {
			return fmt.Errorf("could not insert sync state: %w", err)
		}

		return nil
	}
}
