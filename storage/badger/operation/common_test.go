package operation

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/storage"
	"github.com/sablelabs/sable-client-go/utils/unittest"
)

func TestInsertRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		key := makePrefix(codeAccount, sable.AccountID(1), uint64(2))
		expected := unittest.AccountFixture(unittest.WithAccountID(1), unittest.WithNonce(2))

		err := db.Update(insert(key, expected))
		require.NoError(t, err)

		var actual sable.Account
		err = db.View(retrieve(key, &actual))
		require.NoError(t, err)
		assert.Equal(t, *expected, actual)

		// the key is taken now
		err = db.Update(insert(key, expected))
		require.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}

func TestRetrieveUnknown(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		key := makePrefix(codeAccount, sable.AccountID(1), uint64(2))

		var actual sable.Account
		err := db.View(retrieve(key, &actual))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestUpdate(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		key := makePrefix(codeAccount, sable.AccountID(1), uint64(2))
		account := unittest.AccountFixture(unittest.WithAccountID(1), unittest.WithNonce(2))

		// updates are only valid for existing keys
		err := db.Update(update(key, account))
		require.ErrorIs(t, err, storage.ErrNotFound)

		err = db.Update(insert(key, account))
		require.NoError(t, err)

		account.Committed = false
		err = db.Update(update(key, account))
		require.NoError(t, err)

		var actual sable.Account
		err = db.View(retrieve(key, &actual))
		require.NoError(t, err)
		assert.False(t, actual.Committed)
	})
}

func TestExists(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		key := makePrefix(codeBlockHeader, uint64(42))

		var existing bool
		err := db.View(exists(key, &existing))
		require.NoError(t, err)
		assert.False(t, existing)

		err = db.Update(insert(key, unittest.BlockHeaderFixture(unittest.WithBlockNum(42))))
		require.NoError(t, err)

		err = db.View(exists(key, &existing))
		require.NoError(t, err)
		assert.True(t, existing)
	})
}

func TestInsertBlobIdempotent(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		code := unittest.AccountCodeFixture()
		key := makePrefix(codeAccountCode, code.Root)

		err := db.Update(insertBlob(key, code))
		require.NoError(t, err)

		// identical payload is a no-op
		err = db.Update(insertBlob(key, code))
		require.NoError(t, err)

		// differing payload under the same key must be rejected
		altered := *code
		altered.Code = unittest.RandomBytes(16)
		err = db.Update(insertBlob(key, &altered))
		require.ErrorIs(t, err, storage.ErrDataMismatch)

		// the original payload is untouched
		var actual sable.AccountCode
		err = db.View(retrieve(key, &actual))
		require.NoError(t, err)
		assert.Equal(t, *code, actual)
	})
}

func TestRetrieveLatest(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		accountID := sable.AccountID(5)

		// an empty range has no latest entry
		var actual sable.Account
		err := db.View(retrieveLatest(makePrefix(codeAccount, accountID), &actual))
		require.ErrorIs(t, err, storage.ErrNotFound)

		// nonce 10 must win over nonce 2 and 9 numerically
		for _, nonce := range []uint64{2, 10, 9} {
			account := unittest.AccountFixture(unittest.WithAccountID(accountID), unittest.WithNonce(nonce))
			err := db.Update(insert(makePrefix(codeAccount, accountID, nonce), account))
			require.NoError(t, err)
		}

		// a neighboring account must not leak into the range
		other := unittest.AccountFixture(unittest.WithAccountID(6), unittest.WithNonce(99))
		err = db.Update(insert(makePrefix(codeAccount, sable.AccountID(6), uint64(99)), other))
		require.NoError(t, err)

		err = db.View(retrieveLatest(makePrefix(codeAccount, accountID), &actual))
		require.NoError(t, err)
		assert.Equal(t, uint64(10), actual.Nonce)
	})
}

func TestTraversePrefixIsolation(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		stored := make(map[sable.Digest]*sable.NoteRecord)
		for i := 0; i < 3; i++ {
			note := unittest.NoteRecordFixture()
			stored[note.NoteID] = note
			err := db.Update(insert(makePrefix(codeInputNote, note.NoteID), note))
			require.NoError(t, err)
		}

		// a record in another table must not be visited
		outside := unittest.NoteRecordFixture()
		err := db.Update(insert(makePrefix(codeOutputNote, outside.NoteID), outside))
		require.NoError(t, err)

		var actual []*sable.NoteRecord
		err = db.View(traverse(makePrefix(codeInputNote), noteIterationFunc(sable.NoteFilterAll, &actual)))
		require.NoError(t, err)

		require.Len(t, actual, 3)
		for _, note := range actual {
			assert.Equal(t, stored[note.NoteID], note)
		}
	})
}
