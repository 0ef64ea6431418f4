package badger

import (
	"encoding/base64"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/module"
	"github.com/sablelabs/sable-client-go/module/metrics"
	"github.com/sablelabs/sable-client-go/storage"
	"github.com/sablelabs/sable-client-go/storage/badger/operation"
)

// Auths implements the account authentication store around a badger DB.
//
// Reverse lookups by public key are served exclusively from an in-memory
// cache that has to be populated through CachePublicKey first. The cache
// never falls back to the database: signing code paths must only reach keys
// the client deliberately loaded.
type Auths struct {
	metrics module.CacheMetrics
	db      *badger.DB
	pubKeys *lru.Cache
}

func NewAuths(collector module.CacheMetrics, db *badger.DB) *Auths {
	pubKeys, _ := lru.New(1000)
	a := &Auths{
		metrics: collector,
		db:      db,
		pubKeys: pubKeys,
	}
	return a
}

// Store stores the authentication record of an account and indexes it by its
// public key. Each account holds exactly one record.
func (a *Auths) Store(auth *sable.AccountAuth) error {
	return operation.RetryOnConflict(a.db.Update, func(tx *badger.Txn) error {
		err := operation.InsertAccountAuth(auth)(tx)
		if err != nil {
			return fmt.Errorf("could not insert auth record: %w", err)
		}
		err = operation.IndexAuthAccountID(auth.PublicKey, auth.AccountID)(tx)
		if err != nil {
			return fmt.Errorf("could not index auth record: %w", err)
		}
		return nil
	})
}

// ByAccountID returns the authentication record of the given account.
func (a *Auths) ByAccountID(accountID sable.AccountID) (*sable.AccountAuth, error) {
	var auth sable.AccountAuth
	err := a.db.View(operation.RetrieveAccountAuth(accountID, &auth))
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

// CachePublicKey resolves the account holding the given public key and adds
// the mapping to the in-memory cache, making the key available for reverse
// lookups.
func (a *Auths) CachePublicKey(publicKey []byte) error {
	var accountID sable.AccountID
	err := a.db.View(operation.LookupAuthAccountID(publicKey, &accountID))
	if err != nil {
		return fmt.Errorf("could not look up account for public key: %w", err)
	}

	a.pubKeys.Add(pubKeyString(publicKey), accountID)
	a.metrics.CacheEntries(metrics.ResourceAccountAuth, uint(a.pubKeys.Len()))

	return nil
}

// ByPublicKey returns the authentication record of the account holding the
// given public key. The key must have been loaded with CachePublicKey
// before; an unknown key is an error, the database is not consulted.
func (a *Auths) ByPublicKey(publicKey []byte) (*sable.AccountAuth, error) {
	val, cached := a.pubKeys.Get(pubKeyString(publicKey))
	if !cached {
		a.metrics.CacheNotFound(metrics.ResourceAccountAuth)
		return nil, fmt.Errorf("public key %x not cached: %w", publicKey, storage.ErrNotFound)
	}
	a.metrics.CacheHit(metrics.ResourceAccountAuth)

	return a.ByAccountID(val.(sable.AccountID))
}

// pubKeyString converts raw public key bytes into the stable encoding used
// as the cache key.
func pubKeyString(publicKey []byte) string {
	return base64.StdEncoding.EncodeToString(publicKey)
}
