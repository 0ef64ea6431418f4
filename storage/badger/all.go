package badger

import (
	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/sablelabs/sable-client-go/module"
	"github.com/sablelabs/sable-client-go/storage"
)

func InitAll(log zerolog.Logger, collector module.CacheMetrics, syncCollector module.SyncMetrics, db *badger.DB) *storage.All {
	accounts := NewAccounts(collector, db)
	auths := NewAuths(collector, db)
	notes := NewNotes(db)
	transactions := NewTransactions(db)
	chain := NewChain(collector, db)
	stateSync := NewStateSync(log, syncCollector, db)

	return &storage.All{
		Accounts:     accounts,
		Auths:        auths,
		Notes:        notes,
		Transactions: transactions,
		Chain:        chain,
		StateSync:    stateSync,
	}
}
