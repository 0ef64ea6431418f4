package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
)

func InsertTransaction(transaction *sable.TransactionRecord) func(*badger.Txn) error {
	return insert(makePrefix(codeTransaction, transaction.ID), transaction)
}

func UpdateTransaction(transaction *sable.TransactionRecord) func(*badger.Txn) error {
	return update(makePrefix(codeTransaction, transaction.ID), transaction)
}

func RetrieveTransaction(transactionID sable.Digest, transaction *sable.TransactionRecord) func(*badger.Txn) error {
	return retrieve(makePrefix(codeTransaction, transactionID), transaction)
}

// FindTransactions collects all transactions matching the given filter,
// ordered by transaction id.
func FindTransactions(filter sable.TransactionFilter, transactions *[]*sable.TransactionRecord) func(*badger.Txn) error {
	return traverse(makePrefix(codeTransaction), transactionIterationFunc(filter, transactions))
}

// transactionIterationFunc returns an iteration function which collects all
// transactions matching the given filter.
func transactionIterationFunc(filter sable.TransactionFilter, transactions *[]*sable.TransactionRecord) func() (checkFunc, createFunc, handleFunc) {
	return func() (checkFunc, createFunc, handleFunc) {
		check := func(key []byte) bool {
			return true
		}
		var val sable.TransactionRecord
		create := func() interface{} {
			return &val
		}
		handle := func() error {
			if !filter.Match(&val) {
				return nil
			}
			transaction := val
			*transactions = append(*transactions, &transaction)
			return nil
		}
		return check, create, handle
	}
}

// InsertTransactionScript stores a transaction script under its hash.
// Scripts are content-addressed, so re-inserting an identical script is a
// no-op, while a different script under the same hash fails.
func InsertTransactionScript(script *sable.TransactionScript) func(*badger.Txn) error {
	return insertBlob(makePrefix(codeTransactionScript, script.ScriptHash), script)
}

// RetrieveTransactionScript retrieves the transaction script with the given
// hash.
func RetrieveTransactionScript(scriptHash sable.Digest, script *sable.TransactionScript) func(*badger.Txn) error {
	return retrieve(makePrefix(codeTransactionScript, scriptHash), script)
}
