package badger_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/module/metrics"
	"github.com/sablelabs/sable-client-go/storage"
	bstorage "github.com/sablelabs/sable-client-go/storage/badger"
	"github.com/sablelabs/sable-client-go/utils/unittest"
)

func TestAccountsStoreLatest(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		accounts := bstorage.NewAccounts(metrics, db)

		// an untracked account has no latest version
		_, err := accounts.Latest(1)
		require.ErrorIs(t, err, storage.ErrNotFound)

		expected := unittest.AccountFixture(unittest.WithAccountID(1), unittest.WithNonce(0))
		err = accounts.Store(expected)
		require.NoError(t, err)

		// retrieve twice, the second read is served by the cache
		actual, err := accounts.Latest(1)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		actual, err = accounts.Latest(1)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		// versions are append-only
		err = accounts.Store(expected)
		require.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}

func TestAccountsLatestNumericNonce(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		accounts := bstorage.NewAccounts(metrics, db)

		nonce9 := unittest.AccountFixture(unittest.WithAccountID(1), unittest.WithNonce(9))
		err := accounts.Store(nonce9)
		require.NoError(t, err)

		// prime the cache with the current latest version
		actual, err := accounts.Latest(1)
		require.NoError(t, err)
		assert.Equal(t, nonce9, actual)

		// nonce 10 supersedes nonce 9 numerically, not lexically, and the
		// cached version must not survive the store
		nonce10 := unittest.AccountFixture(unittest.WithAccountID(1), unittest.WithNonce(10))
		err = accounts.Store(nonce10)
		require.NoError(t, err)

		actual, err = accounts.Latest(1)
		require.NoError(t, err)
		assert.Equal(t, nonce10, actual)
	})
}

func TestAccountsAllLatest(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		accounts := bstorage.NewAccounts(metrics, db)

		all, err := accounts.AllLatest()
		require.NoError(t, err)
		assert.Empty(t, all)

		// account 1 with three versions, account 2 with one
		account1v3 := unittest.AccountFixture(unittest.WithAccountID(1), unittest.WithNonce(3))
		account2v1 := unittest.AccountFixture(unittest.WithAccountID(2), unittest.WithNonce(1))
		for _, account := range []*sable.Account{
			unittest.AccountFixture(unittest.WithAccountID(1), unittest.WithNonce(0)),
			account1v3,
			unittest.AccountFixture(unittest.WithAccountID(1), unittest.WithNonce(2)),
			account2v1,
		} {
			err = accounts.Store(account)
			require.NoError(t, err)
		}

		accountIDs, err := accounts.AccountIDs()
		require.NoError(t, err)
		assert.Equal(t, []sable.AccountID{1, 2}, accountIDs)

		all, err = accounts.AllLatest()
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, account1v3, all[0])
		assert.Equal(t, account2v1, all[1])
	})
}

// TestAccountsLatestConsistency drives the store with random version inserts
// and checks that Latest and AllLatest always agree with a plain map model.
func TestAccountsLatestConsistency(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		accounts := bstorage.NewAccounts(metrics, db)

		latest := make(map[sable.AccountID]uint64)
		stored := make(map[sable.AccountID]map[uint64]bool)

		rapid.Check(t, func(t *rapid.T) {
			accountID := sable.AccountID(rapid.Uint64Range(1, 8).Draw(t, "account_id"))
			nonce := rapid.Uint64Range(0, 16).Draw(t, "nonce")

			account := unittest.AccountFixture(unittest.WithAccountID(accountID), unittest.WithNonce(nonce))
			err := accounts.Store(account)
			if stored[accountID][nonce] {
				require.ErrorIs(t, err, storage.ErrAlreadyExists)
			} else {
				require.NoError(t, err)
				if stored[accountID] == nil {
					stored[accountID] = make(map[uint64]bool)
				}
				stored[accountID][nonce] = true
				if current, tracked := latest[accountID]; !tracked || nonce > current {
					latest[accountID] = nonce
				}
			}

			actual, err := accounts.Latest(accountID)
			require.NoError(t, err)
			require.Equal(t, latest[accountID], actual.Nonce)

			all, err := accounts.AllLatest()
			require.NoError(t, err)
			require.Len(t, all, len(latest))
			for _, account := range all {
				require.Equal(t, latest[account.ID], account.Nonce)
			}
		})
	})
}

func TestAccountsBlobs(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		accounts := bstorage.NewAccounts(metrics, db)

		_, err := accounts.CodeByRoot(unittest.DigestFixture())
		require.ErrorIs(t, err, storage.ErrNotFound)

		code := unittest.AccountCodeFixture()
		err = accounts.StoreCode(code)
		require.NoError(t, err)

		// re-storing the identical payload is a no-op
		err = accounts.StoreCode(code)
		require.NoError(t, err)

		// a different payload under the same root must be rejected
		altered := *code
		altered.Code = unittest.RandomBytes(32)
		err = accounts.StoreCode(&altered)
		require.ErrorIs(t, err, storage.ErrDataMismatch)

		actual, err := accounts.CodeByRoot(code.Root)
		require.NoError(t, err)
		assert.Equal(t, code, actual)

		slots := unittest.AccountStorageFixture()
		err = accounts.StoreSlots(slots)
		require.NoError(t, err)
		actualSlots, err := accounts.SlotsByRoot(slots.Root)
		require.NoError(t, err)
		assert.Equal(t, slots, actualSlots)

		vault := unittest.AccountVaultFixture()
		err = accounts.StoreVault(vault)
		require.NoError(t, err)
		actualVault, err := accounts.VaultByRoot(vault.Root)
		require.NoError(t, err)
		assert.Equal(t, vault, actualVault)
	})
}
