package storage

import (
	"github.com/sablelabs/sable-client-go/model/sable"
)

// Auths represents persistent storage for account signing material, indexed
// by account id and, through an explicit in-memory cache, by public key.
//
// The public-key path is deliberately two-step: CachePublicKey loads the row
// for a key into memory, and ByPublicKey serves lookups from that cache only.
// Transaction signing resolves keys on a hot path that must not fall through
// to disk, so an unpopulated key is a hard error rather than a silent read.
type Auths interface {
	// Store writes the signing material for an account and indexes it by
	// public key. One row per account.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if material for the account is already stored
	Store(auth *sable.AccountAuth) error

	// ByAccountID returns the signing material of an account.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no material is stored for the account
	ByAccountID(accountID sable.AccountID) (*sable.AccountAuth, error)

	// CachePublicKey populates the in-memory cache with the auth row indexed
	// by the given public key.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no row is indexed by the key
	CachePublicKey(publicKey []byte) error

	// ByPublicKey returns the cached auth row for the given public key. The
	// cache must have been populated with CachePublicKey first; a miss does
	// not fall back to storage.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the key was never cached
	ByPublicKey(publicKey []byte) (*sable.AccountAuth, error)
}
