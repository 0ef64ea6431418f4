package metrics

// Prometheus metric namespaces
const (
	namespaceStorage = "storage"
	namespaceSync    = "sync"
)

// Prometheus metric subsystems
const (
	subsystemBadger = "badger"
	subsystemCache  = "cache"
)
