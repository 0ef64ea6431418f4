package operation

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
)

// InsertAccount inserts one account version, keyed by account id and nonce.
// Account rows are append-only, so an existing (id, nonce) pair errors with
// storage.ErrAlreadyExists.
func InsertAccount(account *sable.Account) func(*badger.Txn) error {
	return insert(makePrefix(codeAccount, account.ID, account.Nonce), account)
}

// RetrieveAccount retrieves the account version with the given id and nonce.
func RetrieveAccount(accountID sable.AccountID, nonce uint64, account *sable.Account) func(*badger.Txn) error {
	return retrieve(makePrefix(codeAccount, accountID, nonce), account)
}

// RetrieveLatestAccount retrieves the account version with the highest nonce
// for the given account id. Nonces are encoded big-endian in the key, so the
// numerically highest nonce is the last key of the account's range.
func RetrieveLatestAccount(accountID sable.AccountID, account *sable.Account) func(*badger.Txn) error {
	return retrieveLatest(makePrefix(codeAccount, accountID), account)
}

// LookupAccountIDs collects the distinct ids of all tracked accounts, in
// ascending order, without decoding any account payloads.
func LookupAccountIDs(accountIDs *[]sable.AccountID) func(*badger.Txn) error {
	return traverse(makePrefix(codeAccount), keyonly(func(key []byte) {
		// the key layout is 1 code byte, 8 id bytes, 8 nonce bytes; versions
		// of one account are adjacent, so repeated ids collapse by comparing
		// against the last collected one
		accountID := sable.AccountID(binary.BigEndian.Uint64(key[1:9]))
		if n := len(*accountIDs); n > 0 && (*accountIDs)[n-1] == accountID {
			return
		}
		*accountIDs = append(*accountIDs, accountID)
	}))
}

// FindAccounts collects every stored account version, ordered by id and
// ascending nonce.
func FindAccounts(accounts *[]*sable.Account) func(*badger.Txn) error {
	return traverse(makePrefix(codeAccount), accountIterationFunc(accounts))
}

// accountIterationFunc returns an iteration function which collects all
// account versions found during traversal.
func accountIterationFunc(accounts *[]*sable.Account) func() (checkFunc, createFunc, handleFunc) {
	return func() (checkFunc, createFunc, handleFunc) {
		check := func(key []byte) bool {
			return true
		}
		var val sable.Account
		create := func() interface{} {
			return &val
		}
		handle := func() error {
			account := val
			*accounts = append(*accounts, &account)
			return nil
		}
		return check, create, handle
	}
}

// InsertAccountCode stores an account code blob under its commitment root.
// Code is content-addressed, so re-inserting an identical blob is a no-op,
// while a different blob under the same root fails.
func InsertAccountCode(code *sable.AccountCode) func(*badger.Txn) error {
	return insertBlob(makePrefix(codeAccountCode, code.Root), code)
}

// RetrieveAccountCode retrieves the account code blob with the given root.
func RetrieveAccountCode(root sable.Digest, code *sable.AccountCode) func(*badger.Txn) error {
	return retrieve(makePrefix(codeAccountCode, root), code)
}

// InsertAccountStorage stores an account storage blob under its commitment
// root, with the same content-addressed semantics as account code.
func InsertAccountStorage(slots *sable.AccountStorage) func(*badger.Txn) error {
	return insertBlob(makePrefix(codeAccountStorage, slots.Root), slots)
}

// RetrieveAccountStorage retrieves the account storage blob with the given
// root.
func RetrieveAccountStorage(root sable.Digest, slots *sable.AccountStorage) func(*badger.Txn) error {
	return retrieve(makePrefix(codeAccountStorage, root), slots)
}

// InsertAccountVault stores an account vault blob under its commitment root,
// with the same content-addressed semantics as account code.
func InsertAccountVault(vault *sable.AccountVault) func(*badger.Txn) error {
	return insertBlob(makePrefix(codeAccountVault, vault.Root), vault)
}

// RetrieveAccountVault retrieves the account vault blob with the given root.
func RetrieveAccountVault(root sable.Digest, vault *sable.AccountVault) func(*badger.Txn) error {
	return retrieve(makePrefix(codeAccountVault, root), vault)
}
