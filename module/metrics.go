package module

// CacheMetrics reports the utilization of storage caches.
type CacheMetrics interface {
	// CacheEntries reports the total number of cached items.
	CacheEntries(resource string, entries uint)
	// CacheHit reports that a queried item was found in the cache.
	CacheHit(resource string)
	// CacheNotFound reports that a queried item was found in neither the
	// cache nor the database.
	CacheNotFound(resource string)
	// CacheMiss reports that a queried item was missing from the cache but
	// found in the database.
	CacheMiss(resource string)
}

// SyncMetrics reports the progress of chain synchronization.
type SyncMetrics interface {
	// SyncHeight records the block number of the last applied sync batch.
	SyncHeight(blockNum uint64)
	// SyncBatchApplied reports that one sync batch was committed to the
	// store, with the number of notes it touched.
	SyncBatchApplied(notes uint)
}
