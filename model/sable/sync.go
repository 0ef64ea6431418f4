package sable

// NoteTag is the coarse routing tag attached to notes on-chain. The client
// subscribes to the tags of its accounts so the node can pre-filter sync
// batches; tags are lossy by construction, so a batch may reference notes the
// client never tracked.
type NoteTag uint64

// SyncState is the singleton synchronization cursor: the last block height
// applied to the store and the tag set the client currently subscribes to.
type SyncState struct {
	BlockNum uint64
	Tags     []NoteTag
}

// StateSyncUpdate is one synchronization batch as returned by the node,
// covering everything that happened between the current cursor and BlockNum
// of the new header. Paired slices (nullifiers and their block heights, MMR
// node positions and hashes, note ids and their proofs, transaction ids and
// their commit heights) must have matching lengths; the batch is applied as a
// single atomic unit or not at all.
type StateSyncUpdate struct {

	// BlockHeader is the chain tip the batch advances the cursor to.
	BlockHeader BlockHeader

	// Nullifiers observed on-chain since the last sync, with the heights of
	// the blocks that exposed them.
	Nullifiers         []Nullifier
	NullifierBlockNums []uint64

	// New internal chain MMR nodes by in-order position.
	MMRNodeIndices []uint64
	MMRNodes       []Digest

	// Output notes committed by the new block, with their inclusion proofs.
	OutputNoteIDs    []Digest
	OutputNoteProofs [][]byte

	// Input notes committed by the new block, with their inclusion proofs and
	// on-chain metadata.
	InputNoteIDs      []Digest
	InputNoteProofs   [][]byte
	InputNoteMetadata [][]byte

	// Local transactions confirmed on-chain, with the heights of the blocks
	// that included them.
	TransactionIDs       []Digest
	TransactionBlockNums []uint64
}
