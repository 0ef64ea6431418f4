package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
)

// InsertAccountAuth inserts the authentication record for an account. Each
// account holds exactly one record.
func InsertAccountAuth(auth *sable.AccountAuth) func(*badger.Txn) error {
	return insert(makePrefix(codeAccountAuth, auth.AccountID), auth)
}

// RetrieveAccountAuth retrieves the authentication record of the given
// account.
func RetrieveAccountAuth(accountID sable.AccountID, auth *sable.AccountAuth) func(*badger.Txn) error {
	return retrieve(makePrefix(codeAccountAuth, accountID), auth)
}

// IndexAuthAccountID indexes the account holding the given public key, for
// reverse lookups from key material to account.
func IndexAuthAccountID(publicKey []byte, accountID sable.AccountID) func(*badger.Txn) error {
	return insert(makePrefix(codeAuthPublicKey, publicKey), accountID)
}

// LookupAuthAccountID looks up the account holding the given public key.
func LookupAuthAccountID(publicKey []byte, accountID *sable.AccountID) func(*badger.Txn) error {
	return retrieve(makePrefix(codeAuthPublicKey, publicKey), accountID)
}
