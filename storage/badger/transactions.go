package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/storage/badger/operation"
)

// Transactions implements the transaction store around a badger DB, covering
// the transaction table and the content-addressed transaction script table.
type Transactions struct {
	db *badger.DB
}

func NewTransactions(db *badger.DB) *Transactions {
	t := &Transactions{
		db: db,
	}
	return t
}

// Store appends one transaction record.
func (t *Transactions) Store(transaction *sable.TransactionRecord) error {
	err := operation.RetryOnConflict(t.db.Update, operation.InsertTransaction(transaction))
	if err != nil {
		return fmt.Errorf("could not insert transaction %v: %w", transaction.ID, err)
	}
	return nil
}

// StoreScript stores one transaction script. Re-storing an identical script
// is a no-op.
func (t *Transactions) StoreScript(script *sable.TransactionScript) error {
	return operation.RetryOnConflict(t.db.Update, operation.InsertTransactionScript(script))
}

// ByFilter returns all transactions matching the filter, with their script
// payloads resolved.
func (t *Transactions) ByFilter(filter sable.TransactionFilter) ([]*sable.Transaction, error) {
	tx := t.db.NewTransaction(false)
	defer tx.Discard()

	var records []*sable.TransactionRecord
	err := operation.FindTransactions(filter, &records)(tx)
	if err != nil {
		return nil, fmt.Errorf("could not find transactions: %w", err)
	}

	transactions := make([]*sable.Transaction, 0, len(records))
	for _, record := range records {
		transaction := &sable.Transaction{
			TransactionRecord: *record,
		}
		if record.ScriptHash != sable.ZeroDigest {
			var script sable.TransactionScript
			err = operation.RetrieveTransactionScript(record.ScriptHash, &script)(tx)
			if err != nil {
				return nil, fmt.Errorf("could not resolve script %v of transaction %v: %w",
					record.ScriptHash, record.ID, err)
			}
			transaction.Script = script.Program
		}
		transactions = append(transactions, transaction)
	}

	return transactions, nil
}
