package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modifierSkipDuplicates  = "skip_duplicates"
	modifierRetryOnConflict = "retry_on_conflict"
)

var (
	onlyOnce         sync.Once
	storageCollector *StorageCollector
)

type StorageCollector struct {
	storageOperationModified *prometheus.CounterVec
}

// GetStorageCollector returns the process-wide storage collector. Operation
// modifiers run deep inside transaction scopes where no collector can be
// injected, so this one collector is shared by all stores.
func GetStorageCollector() *StorageCollector {
	onlyOnce.Do(
		func() {
			storageCollector = &StorageCollector{
				storageOperationModified: promauto.NewCounterVec(prometheus.CounterOpts{
					Namespace: namespaceStorage,
					Subsystem: subsystemBadger,
					Name:      "operation_modifier",
					Help:      "number of times a storage operation was modified, skipped or retried",
				}, []string{LabelModifier}),
			}
		})

	return storageCollector
}

// SkipDuplicate records that a duplicate insert was skipped.
func (sc *StorageCollector) SkipDuplicate() {
	sc.storageOperationModified.With(prometheus.Labels{LabelModifier: modifierSkipDuplicates}).Inc()
}

// RetryOnConflict records that an aborted transaction was retried.
func (sc *StorageCollector) RetryOnConflict() {
	sc.storageOperationModified.With(prometheus.Labels{LabelModifier: modifierRetryOnConflict}).Inc()
}
