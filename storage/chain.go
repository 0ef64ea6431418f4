package storage

import (
	"github.com/sablelabs/sable-client-go/model/sable"
)

// Chain represents persistent storage for the minimal chain data the client
// retains: synchronized block headers, the internal chain MMR nodes needed to
// rebuild block inclusion paths, and the singleton sync cursor.
type Chain interface {
	// StoreBlockHeader inserts a block header row.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if a header for the block number is already stored
	StoreBlockHeader(header *sable.BlockHeader) error

	// ByBlockNum returns the header stored for the given block number.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no header is stored for the block number
	ByBlockNum(blockNum uint64) (*sable.BlockHeader, error)

	// BlockHeaders returns the headers for the given block numbers in the
	// same order. Missing headers yield nil entries, not an error.
	BlockHeaders(blockNums []uint64) ([]*sable.BlockHeader, error)

	// ChainMMRPeaks returns the serialized MMR peak set stored with the
	// header at the given height.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no header is stored for the block number
	ChainMMRPeaks(blockNum uint64) ([]byte, error)

	// StoreChainMMRNodes bulk-inserts MMR nodes by in-order position. Nodes
	// already stored are skipped; empty input is a no-op.
	// Expected errors during normal operations:
	//   - storage.ErrLengthMismatch if indices and nodes differ in length
	StoreChainMMRNodes(indices []uint64, nodes []sable.Digest) error

	// ChainMMRNodes returns the stored nodes among the given positions,
	// keyed by position. Missing positions are simply absent from the result.
	ChainMMRNodes(indices []uint64) (map[uint64]sable.Digest, error)

	// SyncHeight returns the block height of the last applied sync batch.
	SyncHeight() (uint64, error)

	// NoteTags returns the note tags the client currently subscribes to.
	NoteTags() ([]sable.NoteTag, error)

	// UpdateNoteTags replaces the full subscribed tag set.
	UpdateNoteTags(tags []sable.NoteTag) error
}
