package storage

import (
	"github.com/sablelabs/sable-client-go/model/sable"
)

// Accounts represents persistent storage for versioned account state and the
// content-addressed account blobs it references.
//
// Account rows are append-only: every observed nonce adds a row and no row is
// ever rewritten. The code, storage and vault tables are content-addressed by
// root hash, so a put of an existing root with the identical payload is a
// success and not a conflict.
type Accounts interface {
	// Store appends a new account version.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if a row with the same (id, nonce) is already stored
	Store(account *sable.Account) error

	// AccountIDs returns the distinct ids across all stored account versions,
	// in ascending order.
	AccountIDs() ([]sable.AccountID, error)

	// Latest returns the stored version with the highest nonce for the given
	// account, comparing nonces numerically.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no version of the account is stored
	Latest(accountID sable.AccountID) (*sable.Account, error)

	// AllLatest returns the highest-nonce version of every tracked account.
	AllLatest() ([]*sable.Account, error)

	// StoreCode, StoreSlots and StoreVault insert content-addressed account
	// blobs. Re-inserting an existing root with the identical payload is a
	// no-op.
	// Expected errors during normal operations:
	//   - storage.ErrDataMismatch if the root is already stored with a different payload
	StoreCode(code *sable.AccountCode) error
	StoreSlots(accountStorage *sable.AccountStorage) error
	StoreVault(vault *sable.AccountVault) error

	// CodeByRoot, SlotsByRoot and VaultByRoot return stored account blobs.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the root is not stored
	CodeByRoot(root sable.Digest) (*sable.AccountCode, error)
	SlotsByRoot(root sable.Digest) (*sable.AccountStorage, error)
	VaultByRoot(root sable.Digest) (*sable.AccountVault, error)
}
