package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
)

// InsertSyncState inserts the singleton sync state row. It must be called
// exactly once, when the store is bootstrapped.
func InsertSyncState(state *sable.SyncState) func(*badger.Txn) error {
	return insert(makePrefix(codeSyncState), state)
}

// UpdateSyncState replaces the singleton sync state row.
func UpdateSyncState(state *sable.SyncState) func(*badger.Txn) error {
	return update(makePrefix(codeSyncState), state)
}

// RetrieveSyncState retrieves the singleton sync state row.
func RetrieveSyncState(state *sable.SyncState) func(*badger.Txn) error {
	return retrieve(makePrefix(codeSyncState), state)
}
