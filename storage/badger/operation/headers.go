package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
)

func InsertBlockHeader(header *sable.BlockHeader) func(*badger.Txn) error {
	return insert(makePrefix(codeBlockHeader, header.BlockNum), header)
}

func RetrieveBlockHeader(blockNum uint64, header *sable.BlockHeader) func(*badger.Txn) error {
	return retrieve(makePrefix(codeBlockHeader, blockNum), header)
}
