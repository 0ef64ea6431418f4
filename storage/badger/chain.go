package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/module"
	"github.com/sablelabs/sable-client-go/module/metrics"
	"github.com/sablelabs/sable-client-go/storage"
	"github.com/sablelabs/sable-client-go/storage/badger/operation"
)

// Chain implements the chain data store around a badger DB: synchronized
// block headers, chain MMR authentication nodes and the singleton sync
// state. Headers are cached by block number.
type Chain struct {
	db      *badger.DB
	headers *Cache
}

func NewChain(collector module.CacheMetrics, db *badger.DB) *Chain {

	store := func(key interface{}, val interface{}) func(*badger.Txn) error {
		header := val.(*sable.BlockHeader)
		return operation.InsertBlockHeader(header)
	}

	retrieve := func(key interface{}) func(*badger.Txn) (interface{}, error) {
		blockNum := key.(uint64)
		return func(tx *badger.Txn) (interface{}, error) {
			var header sable.BlockHeader
			err := operation.RetrieveBlockHeader(blockNum, &header)(tx)
			return &header, err
		}
	}

	c := &Chain{
		db: db,
		headers: newCache(collector,
			withLimit(1000),
			withStore(store),
			withRetrieve(retrieve),
			withResource(metrics.ResourceBlockHeader)),
	}

	return c
}

// StoreBlockHeader inserts one block header row.
func (c *Chain) StoreBlockHeader(header *sable.BlockHeader) error {
	return operation.RetryOnConflict(c.db.Update, c.headers.Put(header.BlockNum, header))
}

// ByBlockNum returns the header stored for the given block number.
func (c *Chain) ByBlockNum(blockNum uint64) (*sable.BlockHeader, error) {
	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	return c.retrieveHeaderTx(blockNum)(tx)
}

func (c *Chain) retrieveHeaderTx(blockNum uint64) func(*badger.Txn) (*sable.BlockHeader, error) {
	return func(tx *badger.Txn) (*sable.BlockHeader, error) {
		val, err := c.headers.Get(blockNum)(tx)
		if err != nil {
			return nil, err
		}
		return val.(*sable.BlockHeader), nil
	}
}

// BlockHeaders returns the headers for the given block numbers, in the same
// order. A block number without a stored header yields a nil entry.
func (c *Chain) BlockHeaders(blockNums []uint64) ([]*sable.BlockHeader, error) {
	tx := c.db.NewTransaction(false)
	defer tx.Discard()

	headers := make([]*sable.BlockHeader, len(blockNums))
	for i, blockNum := range blockNums {
		header, err := c.retrieveHeaderTx(blockNum)(tx)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not retrieve header %d: %w", blockNum, err)
		}
		headers[i] = header
	}

	return headers, nil
}

// ChainMMRPeaks returns the serialized MMR peak set stored with the header
// at the given block number.
func (c *Chain) ChainMMRPeaks(blockNum uint64) ([]byte, error) {
	header, err := c.ByBlockNum(blockNum)
	if err != nil {
		return nil, err
	}
	return header.ChainMMRPeaks, nil
}

// StoreChainMMRNodes bulk-inserts authentication nodes by in-forest
// position. Positions already holding their node are skipped; all inserts
// commit as one unit.
func (c *Chain) StoreChainMMRNodes(indices []uint64, nodes []sable.Digest) error {
	if len(indices) != len(nodes) {
		return fmt.Errorf("%d indices with %d nodes: %w",
			len(indices), len(nodes), storage.ErrLengthMismatch)
	}
	if len(indices) == 0 {
		return nil
	}

	return operation.RetryOnConflict(c.db.Update, func(tx *badger.Txn) error {
		for i, index := range indices {
			err := operation.InsertChainMMRNode(index, nodes[i])(tx)
			if err != nil {
				return fmt.Errorf("could not insert chain MMR node %d: %w", index, err)
			}
		}
		return nil
	})
}

// ChainMMRNodes returns the stored nodes among the given positions, keyed by
// position. Positions without a stored node are absent from the result.
func (c *Chain) ChainMMRNodes(indices []uint64) (map[uint64]sable.Digest, error) {
	tx := c.db.NewTransaction(false)
	defer tx.Discard()

	nodes := make(map[uint64]sable.Digest, len(indices))
	for _, index := range indices {
		var node sable.Digest
		err := operation.RetrieveChainMMRNode(index, &node)(tx)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not retrieve chain MMR node %d: %w", index, err)
		}
		nodes[index] = node
	}

	return nodes, nil
}

// SyncHeight returns the block number of the last applied sync batch.
func (c *Chain) SyncHeight() (uint64, error) {
	var state sable.SyncState
	err := c.db.View(operation.RetrieveSyncState(&state))
	if err != nil {
		return 0, fmt.Errorf("could not retrieve sync state: %w", err)
	}
	return state.BlockNum, nil
}

// NoteTags returns the note tags the client currently subscribes to.
func (c *Chain) NoteTags() ([]sable.NoteTag, error) {
	var state sable.SyncState
	err := c.db.View(operation.RetrieveSyncState(&state))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve sync state: %w", err)
	}
	return state.Tags, nil
}

// UpdateNoteTags replaces the full subscribed tag set, keeping the sync
// cursor untouched.
func (c *Chain) UpdateNoteTags(tags []sable.NoteTag) error {
	return operation.RetryOnConflict(c.db.Update, func(tx *badger.Txn) error {
		var state sable.SyncState
		err := operation.RetrieveSyncState(&state)(tx)
		if err != nil {
			return fmt.Errorf("could not retrieve sync state: %w", err)
		}
		state.Tags = tags
		err = operation.UpdateSyncState(&state)(tx)
		if err != nil {
			return fmt.Errorf("could not update sync state: %w", err)
		}
		return nil
	})
}
