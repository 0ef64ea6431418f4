package sable

// TransactionRecord is a locally built and proven transaction as tracked by
// the client. Rows are written once when the transaction is proven and
// updated exactly once more when a sync batch confirms them.
type TransactionRecord struct {
	ID Digest

	// AccountID is the account executing the transaction.
	AccountID AccountID

	// InitAccountState and FinalAccountState are the account state roots
	// before and after execution.
	InitAccountState  Digest
	FinalAccountState Digest

	// InputNotes and OutputNotes reference the notes consumed and produced by
	// the transaction.
	InputNotes  []Digest
	OutputNotes []Digest

	// ScriptHash references the content-addressed transaction script table;
	// zero for transactions without a custom script. ScriptInputs is the
	// serialized argument stack for the script. Opaque.
	ScriptHash   Digest
	ScriptInputs []byte

	// BlockNum is the sync height at which the transaction was built.
	BlockNum uint64

	// CommitHeight is the block at which the chain included the transaction.
	// It is nil until a sync batch confirms the transaction and never cleared
	// afterwards.
	CommitHeight *uint64
}

// Transaction is the read-time projection of a transaction record with the
// script payload resolved from the script table.
type Transaction struct {
	TransactionRecord

	Script []byte
}

// TransactionScript is a content-addressed transaction script blob.
type TransactionScript struct {
	ScriptHash Digest
	Program    []byte
}

// TransactionFilter selects transactions in store queries.
type TransactionFilter int

const (
	// TransactionFilterAll matches every transaction.
	TransactionFilterAll TransactionFilter = iota
	// TransactionFilterUncommitted matches transactions not yet confirmed by
	// a sync batch.
	TransactionFilterUncommitted
)

// String returns the string representation of a transaction filter.
func (f TransactionFilter) String() string {
	return [...]string{"ALL", "UNCOMMITTED"}[f]
}

// Match reports whether a transaction record passes the filter.
func (f TransactionFilter) Match(tx *TransactionRecord) bool {
	if f == TransactionFilterUncommitted {
		return tx.CommitHeight == nil
	}
	return true
}
