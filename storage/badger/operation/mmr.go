package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
)

// InsertChainMMRNode stores one authentication node hash under its in-forest
// position. Positions are immutable once written, so re-inserting the same
// hash is a no-op, while a different hash for an occupied position fails.
func InsertChainMMRNode(index uint64, node sable.Digest) func(*badger.Txn) error {
	return insertBlob(makePrefix(codeChainMMRNode, index), node)
}

// RetrieveChainMMRNode retrieves the authentication node hash stored under
// the given in-forest position.
func RetrieveChainMMRNode(index uint64, node *sable.Digest) func(*badger.Txn) error {
	return retrieve(makePrefix(codeChainMMRNode, index), node)
}
