package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/module"
	"github.com/sablelabs/sable-client-go/module/metrics"
	"github.com/sablelabs/sable-client-go/storage/badger/operation"
)

// Accounts implements the versioned account store around a badger DB,
// together with the content-addressed account code, storage and vault
// tables. The latest version of each account is cached by id.
type Accounts struct {
	db    *badger.DB
	cache *Cache
}

func NewAccounts(collector module.CacheMetrics, db *badger.DB) *Accounts {

	retrieve := func(key interface{}) func(*badger.Txn) (interface{}, error) {
		accountID := key.(sable.AccountID)
		return func(tx *badger.Txn) (interface{}, error) {
			var account sable.Account
			err := operation.RetrieveLatestAccount(accountID, &account)(tx)
			return &account, err
		}
	}

	a := &Accounts{
		db: db,
		cache: newCache(collector,
			withLimit(128),
			withRetrieve(retrieve),
			withResource(metrics.ResourceAccount)),
	}

	return a
}

// Store appends one account version. Account rows are never mutated, so a
// version that is already stored is rejected.
func (a *Accounts) Store(account *sable.Account) error {
	err := operation.RetryOnConflict(a.db.Update, operation.InsertAccount(account))
	if err != nil {
		return fmt.Errorf("could not insert account %d: %w", account.ID, err)
	}

	// the cached latest version may be superseded by the new row
	a.cache.Remove(account.ID)

	return nil
}

// AccountIDs returns the distinct ids of all tracked accounts.
func (a *Accounts) AccountIDs() ([]sable.AccountID, error) {
	var accountIDs []sable.AccountID
	err := a.db.View(operation.LookupAccountIDs(&accountIDs))
	if err != nil {
		return nil, fmt.Errorf("could not look up account ids: %w", err)
	}
	return accountIDs, nil
}

// Latest returns the highest-nonce version of the given account.
func (a *Accounts) Latest(accountID sable.AccountID) (*sable.Account, error) {
	tx := a.db.NewTransaction(false)
	defer tx.Discard()
	val, err := a.cache.Get(accountID)(tx)
	if err != nil {
		return nil, err
	}
	return val.(*sable.Account), nil
}

// AllLatest returns the highest-nonce version of every tracked account,
// ordered by account id.
func (a *Accounts) AllLatest() ([]*sable.Account, error) {
	var accounts []*sable.Account
	err := a.db.View(operation.FindAccounts(&accounts))
	if err != nil {
		return nil, fmt.Errorf("could not find accounts: %w", err)
	}

	// one pass over all versions, keeping the first-seen version per id and
	// replacing it only on a strictly greater nonce
	latest := make(map[sable.AccountID]*sable.Account)
	var accountIDs []sable.AccountID
	for _, account := range accounts {
		best, ok := latest[account.ID]
		if !ok {
			latest[account.ID] = account
			accountIDs = append(accountIDs, account.ID)
			continue
		}
		if account.Nonce > best.Nonce {
			latest[account.ID] = account
		}
	}

	all := make([]*sable.Account, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		all = append(all, latest[accountID])
	}

	return all, nil
}

// StoreCode stores an account code blob. Re-storing an identical blob is a
// no-op.
func (a *Accounts) StoreCode(code *sable.AccountCode) error {
	return operation.RetryOnConflict(a.db.Update, operation.InsertAccountCode(code))
}

// StoreSlots stores an account storage blob. Re-storing an identical blob is
// a no-op.
func (a *Accounts) StoreSlots(slots *sable.AccountStorage) error {
	return operation.RetryOnConflict(a.db.Update, operation.InsertAccountStorage(slots))
}

// StoreVault stores an account vault blob. Re-storing an identical blob is a
// no-op.
func (a *Accounts) StoreVault(vault *sable.AccountVault) error {
	return operation.RetryOnConflict(a.db.Update, operation.InsertAccountVault(vault))
}

// CodeByRoot returns the account code blob with the given root.
func (a *Accounts) CodeByRoot(root sable.Digest) (*sable.AccountCode, error) {
	var code sable.AccountCode
	err := a.db.View(operation.RetrieveAccountCode(root, &code))
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// SlotsByRoot returns the account storage blob with the given root.
func (a *Accounts) SlotsByRoot(root sable.Digest) (*sable.AccountStorage, error) {
	var slots sable.AccountStorage
	err := a.db.View(operation.RetrieveAccountStorage(root, &slots))
	if err != nil {
		return nil, err
	}
	return &slots, nil
}

// VaultByRoot returns the account vault blob with the given root.
func (a *Accounts) VaultByRoot(root sable.Digest) (*sable.AccountVault, error) {
	var vault sable.AccountVault
	err := a.db.View(operation.RetrieveAccountVault(root, &vault))
	if err != nil {
		return nil, err
	}
	return &vault, nil
}
