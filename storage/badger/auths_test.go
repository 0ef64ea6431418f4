package badger_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablelabs/sable-client-go/module/metrics"
	"github.com/sablelabs/sable-client-go/storage"
	bstorage "github.com/sablelabs/sable-client-go/storage/badger"
	"github.com/sablelabs/sable-client-go/utils/unittest"
)

func TestAuthsStoreRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		auths := bstorage.NewAuths(metrics, db)

		_, err := auths.ByAccountID(1)
		require.ErrorIs(t, err, storage.ErrNotFound)

		auth := unittest.AccountAuthFixture(unittest.WithAuthAccountID(1))
		err = auths.Store(auth)
		require.NoError(t, err)

		actual, err := auths.ByAccountID(1)
		require.NoError(t, err)
		assert.Equal(t, auth, actual)

		// each account holds exactly one auth record
		err = auths.Store(auth)
		require.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}

func TestAuthsByPublicKey(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		auths := bstorage.NewAuths(metrics, db)

		auth := unittest.AccountAuthFixture()
		err := auths.Store(auth)
		require.NoError(t, err)

		// the reverse index is only consulted through the cache, so the key is
		// unknown until it is loaded
		_, err = auths.ByPublicKey(auth.PublicKey)
		require.ErrorIs(t, err, storage.ErrNotFound)

		err = auths.CachePublicKey(auth.PublicKey)
		require.NoError(t, err)

		actual, err := auths.ByPublicKey(auth.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, auth, actual)

		// a key no account holds cannot be loaded
		err = auths.CachePublicKey(unittest.RandomBytes(32))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}
