package badger

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/sablelabs/sable-client-go/storage/badger/operation"
	"github.com/sablelabs/sable-client-go/storage/badger/procedure"
)

// OpenStore opens or creates the client database in the given directory and
// seeds the singleton rows a fresh database needs.
func OpenStore(log zerolog.Logger, dir string) (*badger.DB, error) {
	opts := badger.
		DefaultOptions(dir).
		WithKeepL0InMemory(true).
		WithLogger(sink{log: log.With().Str("component", "badger").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open database at %s: %w", dir, err)
	}

	err = operation.RetryOnConflict(db.Update, procedure.Bootstrap())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not bootstrap database: %w", err)
	}

	return db, nil
}

// sink adapts zerolog to badger's logger interface.
type sink struct {
	log zerolog.Logger
}

func (s sink) Errorf(format string, args ...interface{}) {
	s.log.Error().Msg(render(format, args))
}

func (s sink) Warningf(format string, args ...interface{}) {
	s.log.Warn().Msg(render(format, args))
}

// badger reports routine compaction activity at info level, which would
// drown the client's own logs.
func (s sink) Infof(format string, args ...interface{}) {
	s.log.Debug().Msg(render(format, args))
}

func (s sink) Debugf(format string, args ...interface{}) {
	s.log.Debug().Msg(render(format, args))
}

func render(format string, args []interface{}) string {
	return strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
}
