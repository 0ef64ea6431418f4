package badger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/module/metrics"
	bstorage "github.com/sablelabs/sable-client-go/storage/badger"
	"github.com/sablelabs/sable-client-go/utils/unittest"
)

func TestOpenStore(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		metrics := metrics.NewNoopCollector()

		db, err := bstorage.OpenStore(unittest.Logger(), dir)
		require.NoError(t, err)

		// a fresh database comes up bootstrapped
		chain := bstorage.NewChain(metrics, db)
		height, err := chain.SyncHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), height)

		// state survives closing and reopening
		err = chain.UpdateNoteTags([]sable.NoteTag{7})
		require.NoError(t, err)
		require.NoError(t, bstorage.NewStateSync(unittest.Logger(), metrics, db).
			Apply(unittest.StateSyncUpdateFixture(12)))
		require.NoError(t, db.Close())

		db, err = bstorage.OpenStore(unittest.Logger(), dir)
		require.NoError(t, err)
		defer db.Close()

		chain = bstorage.NewChain(metrics, db)
		height, err = chain.SyncHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(12), height)
		tags, err := chain.NoteTags()
		require.NoError(t, err)
		assert.Equal(t, []sable.NoteTag{7}, tags)
	})
}
