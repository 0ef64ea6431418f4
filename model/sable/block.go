package sable

// BlockHeader is one synchronized block header together with the chain
// MMR peaks at that height. Header and peaks are stored as the serialized
// forms produced by the node; the store never interprets them.
type BlockHeader struct {
	BlockNum uint64

	Header []byte

	// ChainMMRPeaks is the serialized peak set of the chain MMR with this
	// block as the latest leaf.
	ChainMMRPeaks []byte

	// HasClientNotes marks blocks containing at least one note relevant to
	// this client. Authentication data for such blocks must be retained to
	// keep their inclusion proofs verifiable.
	HasClientNotes bool
}
