package operation

import (
	"errors"
	"syscall"

	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/module/metrics"
	"github.com/sablelabs/sable-client-go/storage"
)

// SkipDuplicates executes the operation and swallows storage.ErrAlreadyExists,
// so that re-storing an existing entity is a no-op for the caller.
func SkipDuplicates(op func(*badger.Txn) error) func(tx *badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := op(tx)
		if errors.Is(err, storage.ErrAlreadyExists) {
			metrics.GetStorageCollector().SkipDuplicate()
			return nil
		}
		return err
	}
}

// RetryOnConflict repeats the operation for as long as it fails with badger's
// transaction conflict error. Badger uses optimistic concurrency control, so
// a read-write transaction may be aborted by a concurrent writer touching the
// same keys and must be re-run against fresh state.
func RetryOnConflict(action func(func(*badger.Txn) error) error, op func(tx *badger.Txn) error) error {
	for {
		err := action(op)
		if errors.Is(err, badger.ErrConflict) {
			metrics.GetStorageCollector().RetryOnConflict()
			continue
		}
		return err
	}
}

// TerminateOnFullDisk crashes the process if a write failed because the disk
// is full. Badger cannot recover its value log in that state, and continuing
// would let the client silently fall behind the chain.
func TerminateOnFullDisk(err error) error {
	// using panic so any deferred functions can still execute
	if err != nil && errors.Is(err, syscall.ENOSPC) {
		panic("disk full, terminating client...")
	}
	return err
}
