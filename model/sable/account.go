package sable

// AccountID identifies an account tracked by the client. Account ids are
// field elements on chain; the store keeps them as unsigned 64-bit integers
// and never compares them as strings.
type AccountID uint64

// Account is one observed version of an account's on-chain state. The store
// keeps a row per (ID, Nonce) pair and never mutates a row once written; the
// current state of an account is the row with the highest nonce.
type Account struct {

	// ID and Nonce form the unique key of the row. Nonces increase with every
	// state transition of the account and are compared numerically.
	ID    AccountID
	Nonce uint64

	// Roots of the account code, storage and vault trees. The payloads they
	// address live in the content-addressed blob tables and are shared across
	// all account versions referencing the same root.
	CodeRoot    Digest
	StorageRoot Digest
	VaultRoot   Digest

	// Seed is the commitment opening used to derive the account id. It is only
	// set for accounts created locally that have not yet been observed
	// on-chain, and nil afterwards.
	Seed []byte

	// Committed marks account versions that have been anchored on-chain.
	Committed bool
}

// AccountCode is the content-addressed code blob of an account interface.
// Identical roots always map to identical payloads.
type AccountCode struct {
	Root Digest
	Code []byte
}

// AccountStorage is the content-addressed storage-tree blob of an account.
type AccountStorage struct {
	Root  Digest
	Slots []byte
}

// AccountVault is the content-addressed asset-vault blob of an account.
type AccountVault struct {
	Root   Digest
	Assets []byte
}

// AccountAuth holds the signing material for one account. AuthInfo is an
// opaque serialization of the secret key handle; PublicKey is kept alongside
// it so the row can also be found from a public key exposed by a transaction
// witness.
type AccountAuth struct {
	AccountID AccountID
	AuthInfo  []byte
	PublicKey []byte
}
