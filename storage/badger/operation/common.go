package operation

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/storage"
)

// insert will encode the given entity and store the resulting binary data
// under the provided key. It will error if the key already exists.
func insert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		// check if the key already exists in the db
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not check key: %w", err)
		}

		// serialize the entity data
		val, err := encodeEntity(entity)
		if err != nil {
			return fmt.Errorf("could not encode entity: %w", err)
		}

		// persist the entity data into the DB
		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not store data: %w", err)
		}

		return nil
	}
}

// insertBlob stores a content-addressed entity under the provided key. A key
// that already holds the identical encoding is a no-op; a key that holds a
// different encoding fails, as content-addressed data must never change under
// its hash.
func insertBlob(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		// serialize the entity data first, so an existing value can be
		// compared byte for byte
		val, err := encodeEntity(entity)
		if err != nil {
			return fmt.Errorf("could not encode entity: %w", err)
		}

		item, err := tx.Get(key)
		if err == nil {
			return item.Value(func(stored []byte) error {
				if !bytes.Equal(stored, val) {
					return fmt.Errorf("blob %x already stored with different payload: %w", key, storage.ErrDataMismatch)
				}
				return nil
			})
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not check key: %w", err)
		}

		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not store data: %w", err)
		}

		return nil
	}
}

// update will encode the given entity and replace the binary data under the
// given key. It will error if the key does not exist yet.
func update(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		// retrieve the item from the key-value store
		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not check key: %w", err)
		}

		// serialize the entity data
		val, err := encodeEntity(entity)
		if err != nil {
			return fmt.Errorf("could not encode entity: %w", err)
		}

		// persist the entity data into the DB
		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not replace data: %w", err)
		}

		return nil
	}
}

// retrieve will retrieve the binary data under the given key from the DB and
// decode it into the given entity. The provided entity needs to be a pointer
// to an initialized entity of the correct type.
func retrieve(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {

		// retrieve the item from the key-value store
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not load data: %w", err)
		}

		// get the value from the item
		err = item.Value(func(val []byte) error {
			return decodeValue(val, entity)
		})
		if err != nil {
			return fmt.Errorf("could not decode entity: %w", err)
		}

		return nil
	}
}

// exists will check whether the entry with the given key exists in the DB.
func exists(key []byte, result *bool) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			*result = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not check existence: %w", err)
		}
		*result = true
		return nil
	}
}

// retrieveLatest decodes the value stored under the lexicographically
// largest key with the given prefix. As our keys encode numeric components
// in big-endian order, this is the entry with the highest number.
//
// We seek in reverse from the prefix extended with a 0xff suffix, which makes
// badger position the iterator on the largest key at or below the suffixed
// prefix. The suffix must be longer than any key component following the
// prefix, so that no real key can sort above it.
func retrieveLatest(prefix []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		if len(prefix) == 0 {
			return fmt.Errorf("prefix must not be empty")
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true

		it := tx.NewIterator(opts)
		defer it.Close()

		suffix := make([]byte, 32)
		for i := range suffix {
			suffix[i] = 0xff
		}

		it.Seek(append(prefix, suffix...))
		if !it.ValidForPrefix(prefix) {
			return storage.ErrNotFound
		}

		err := it.Item().Value(func(val []byte) error {
			return decodeValue(val, entity)
		})
		if err != nil {
			return fmt.Errorf("could not decode entity: %w", err)
		}

		return nil
	}
}

// checkFunc is called during key iteration through the badger DB in order to
// check whether we should process the given key-value pair. It can be used to
// avoid loading the value if its not of interest, as well as storing the key
// for the current iteration step.
type checkFunc func(key []byte) bool

// createFunc returns a pointer to an initialized entity that we can
// potentially decode the next value into during a badger DB iteration.
type createFunc func() interface{}

// handleFunc is a function that starts the processing of the current
// key-value pair during a badger iteration. It should be called after the
// key was checked and the entity was decoded.
type handleFunc func() error

// handleKeyFunc is a function that processes the current key during a badger
// iteration.
type handleKeyFunc func(key []byte)

// iterationFunc is a function provided to our low-level iteration function
// that allows us to pass badger efficiencies across badger boundaries. By
// calling it for each iteration step, we can inject a function to check the
// key, a function to create the decode target and a function to process the
// current key-value pair.
type iterationFunc func() (checkFunc, createFunc, handleFunc)

// keyonly returns an iterationFunc that only iterates the keys of the table.
// It is useful to traverse a table when the data needed is fully contained in
// the key itself, without decoding any values.
func keyonly(handleKey handleKeyFunc) iterationFunc {
	return func() (checkFunc, createFunc, handleFunc) {
		check := func(key []byte) bool {
			handleKey(key)

			// return false to skip loading the value of the key
			return false
		}
		create := func() interface{} {
			return nil
		}
		handle := func() error {
			return nil
		}
		return check, create, handle
	}
}

// traverse iterates over a range of keys defined by a prefix.
//
// The prefix must be shared by all keys in the iteration.
//
// On each iteration, it will call the iteration function to initialize
// functions specific to processing the given key-value pair.
func traverse(prefix []byte, iteration iterationFunc) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		if len(prefix) == 0 {
			return fmt.Errorf("prefix must not be empty")
		}

		opts := badger.DefaultIteratorOptions
		// NOTE: this is an optimization only, it does not enforce that all
		// results in the iteration have this prefix.
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {

			item := it.Item()

			// initialize processing functions for iteration
			check, create, handle := iteration()

			// check if we should process the item at all
			key := item.Key()
			ok := check(key)
			if !ok {
				continue
			}

			// process the actual item
			err := item.Value(func(val []byte) error {

				// decode into the entity
				entity := create()
				err := decodeValue(val, entity)
				if err != nil {
					return fmt.Errorf("could not decode entity: %w", err)
				}

				// process the entity
				err = handle()
				if err != nil {
					return fmt.Errorf("could not handle entity: %w", err)
				}

				return nil
			})
			if err != nil {
				return fmt.Errorf("could not process value: %w", err)
			}
		}

		return nil
	}
}
