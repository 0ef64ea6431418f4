package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type SyncCollector struct {
	syncHeight     prometheus.Gauge
	batchesApplied prometheus.Counter
	notesTouched   prometheus.Counter
}

func NewSyncCollector() *SyncCollector {

	sc := &SyncCollector{

		syncHeight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceSync,
			Name:      "height",
			Help:      "the block number of the last applied sync batch",
		}),

		batchesApplied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceSync,
			Name:      "batches_applied_total",
			Help:      "the number of sync batches committed to the store",
		}),

		notesTouched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceSync,
			Name:      "notes_touched_total",
			Help:      "the number of notes consumed or committed by sync batches",
		}),
	}

	return sc
}

// SyncHeight records the block number of the last applied sync batch.
func (sc *SyncCollector) SyncHeight(blockNum uint64) {
	sc.syncHeight.Set(float64(blockNum))
}

// SyncBatchApplied records that one sync batch was committed to the store.
func (sc *SyncCollector) SyncBatchApplied(notes uint) {
	sc.batchesApplied.Inc()
	sc.notesTouched.Add(float64(notes))
}
