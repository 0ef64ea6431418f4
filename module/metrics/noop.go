package metrics

type NoopCollector struct{}

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) CacheEntries(resource string, entries uint) {}
func (nc *NoopCollector) CacheHit(resource string)                   {}
func (nc *NoopCollector) CacheNotFound(resource string)              {}
func (nc *NoopCollector) CacheMiss(resource string)                  {}
func (nc *NoopCollector) SyncHeight(blockNum uint64)                 {}
func (nc *NoopCollector) SyncBatchApplied(notes uint)                {}
