package badger_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/module/metrics"
	"github.com/sablelabs/sable-client-go/storage"
	bstorage "github.com/sablelabs/sable-client-go/storage/badger"
	"github.com/sablelabs/sable-client-go/storage/badger/procedure"
	"github.com/sablelabs/sable-client-go/utils/unittest"
)

func TestStateSyncConsumeNotes(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		notes := bstorage.NewNotes(db)
		chain := bstorage.NewChain(metrics, db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))

		spent := unittest.NoteRecordFixture(
			unittest.WithNoteStatus(sable.NoteStatusCommitted), unittest.WithNullifier("0xaa"))
		unspent := unittest.NoteRecordFixture(
			unittest.WithNoteStatus(sable.NoteStatusCommitted), unittest.WithNullifier("0xbb"))
		require.NoError(t, notes.StoreInputNote(spent, nil))
		require.NoError(t, notes.StoreInputNote(unspent, nil))

		update := unittest.StateSyncUpdateFixture(42)
		update.Nullifiers = []sable.Nullifier{"0xaa"}
		update.NullifierBlockNums = []uint64{42}

		err := sync.Apply(update)
		require.NoError(t, err)

		// the spent note is consumed at the nullifier's block height
		found, err := notes.ByIDs([]sable.Digest{spent.NoteID, unspent.NoteID})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, sable.NoteStatusConsumed, found[0].Status)
		require.NotNil(t, found[0].NullifierHeight)
		assert.Equal(t, uint64(42), *found[0].NullifierHeight)

		// the other note is untouched
		assert.Equal(t, sable.NoteStatusCommitted, found[1].Status)
		assert.Nil(t, found[1].NullifierHeight)

		// the cursor moved to the batch's block and the header is stored
		height, err := chain.SyncHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(42), height)
		header, err := chain.ByBlockNum(42)
		require.NoError(t, err)
		assert.Equal(t, update.BlockHeader, *header)
	})
}

func TestStateSyncConsumedKeepsHeight(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		notes := bstorage.NewNotes(db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))

		note := unittest.NoteRecordFixture(
			unittest.WithNoteStatus(sable.NoteStatusCommitted), unittest.WithNullifier("0xaa"))
		require.NoError(t, notes.StoreInputNote(note, nil))

		update := unittest.StateSyncUpdateFixture(42)
		update.Nullifiers = []sable.Nullifier{"0xaa"}
		update.NullifierBlockNums = []uint64{42}
		require.NoError(t, sync.Apply(update))

		// a re-delivered nullifier must not move the recorded height
		redelivered := unittest.StateSyncUpdateFixture(43)
		redelivered.Nullifiers = []sable.Nullifier{"0xaa"}
		redelivered.NullifierBlockNums = []uint64{43}
		require.NoError(t, sync.Apply(redelivered))

		found, err := notes.ByIDs([]sable.Digest{note.NoteID})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, sable.NoteStatusConsumed, found[0].Status)
		require.NotNil(t, found[0].NullifierHeight)
		assert.Equal(t, uint64(42), *found[0].NullifierHeight)
	})
}

func TestStateSyncConsumePendingNote(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		notes := bstorage.NewNotes(db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))

		// a nullifier can appear before the note's inclusion proof was ever
		// delivered; the note then skips committed entirely
		note := unittest.NoteRecordFixture(
			unittest.WithNoteStatus(sable.NoteStatusPending), unittest.WithNullifier("0xaa"))
		require.NoError(t, notes.StoreInputNote(note, nil))

		update := unittest.StateSyncUpdateFixture(42)
		update.Nullifiers = []sable.Nullifier{"0xaa"}
		update.NullifierBlockNums = []uint64{42}
		require.NoError(t, sync.Apply(update))

		found, err := notes.ByIDs([]sable.Digest{note.NoteID})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, sable.NoteStatusConsumed, found[0].Status)
		require.NotNil(t, found[0].NullifierHeight)
		assert.Equal(t, uint64(42), *found[0].NullifierHeight)
	})
}

func TestStateSyncCommitNotes(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		notes := bstorage.NewNotes(db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))

		output := unittest.NoteRecordFixture()
		input := unittest.NoteRecordFixture()
		require.NoError(t, notes.StoreOutputNote(output, nil))
		require.NoError(t, notes.StoreInputNote(input, nil))

		outputProof := unittest.RandomBytes(64)
		inputProof := unittest.RandomBytes(64)
		inputMetadata := unittest.RandomBytes(32)

		// the batch also announces an output note the store never tracked
		update := unittest.StateSyncUpdateFixture(100)
		update.OutputNoteIDs = []sable.Digest{output.NoteID, unittest.DigestFixture()}
		update.OutputNoteProofs = [][]byte{outputProof, unittest.RandomBytes(64)}
		update.InputNoteIDs = []sable.Digest{input.NoteID}
		update.InputNoteProofs = [][]byte{inputProof}
		update.InputNoteMetadata = [][]byte{inputMetadata}

		err := sync.Apply(update)
		require.NoError(t, err)

		outputNotes, err := notes.OutputNotes(sable.NoteFilterAll)
		require.NoError(t, err)
		require.Len(t, outputNotes, 1)
		assert.Equal(t, sable.NoteStatusCommitted, outputNotes[0].Status)
		assert.Equal(t, outputProof, outputNotes[0].InclusionProof)

		inputNotes, err := notes.InputNotes(sable.NoteFilterAll)
		require.NoError(t, err)
		require.Len(t, inputNotes, 1)
		assert.Equal(t, sable.NoteStatusCommitted, inputNotes[0].Status)
		assert.Equal(t, inputProof, inputNotes[0].InclusionProof)
		assert.Equal(t, inputMetadata, inputNotes[0].Metadata)
	})
}

func TestStateSyncConfirmTransactions(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		transactions := bstorage.NewTransactions(db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))

		confirmed := unittest.TransactionRecordFixture(unittest.WithTransactionScriptHash(sable.ZeroDigest))
		pending := unittest.TransactionRecordFixture(unittest.WithTransactionScriptHash(sable.ZeroDigest))
		require.NoError(t, transactions.Store(confirmed))
		require.NoError(t, transactions.Store(pending))

		update := unittest.StateSyncUpdateFixture(55)
		update.TransactionIDs = []sable.Digest{confirmed.ID}
		update.TransactionBlockNums = []uint64{55}

		err := sync.Apply(update)
		require.NoError(t, err)

		uncommitted, err := transactions.ByFilter(sable.TransactionFilterUncommitted)
		require.NoError(t, err)
		require.Len(t, uncommitted, 1)
		assert.Equal(t, pending.ID, uncommitted[0].ID)

		// the confirmation sets the commit height and nothing else
		commitHeight := uint64(55)
		expected := *confirmed
		expected.CommitHeight = &commitHeight

		all, err := transactions.ByFilter(sable.TransactionFilterAll)
		require.NoError(t, err)
		require.Len(t, all, 2)
		for _, transaction := range all {
			if transaction.ID != confirmed.ID {
				continue
			}
			assert.Equal(t, expected, transaction.TransactionRecord)
		}
	})
}

func TestStateSyncStoresMMRNodes(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		chain := bstorage.NewChain(metrics, db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))

		nodes := []sable.Digest{unittest.DigestFixture(), unittest.DigestFixture()}
		update := unittest.StateSyncUpdateFixture(8)
		update.MMRNodeIndices = []uint64{3, 4}
		update.MMRNodes = nodes

		err := sync.Apply(update)
		require.NoError(t, err)

		found, err := chain.ChainMMRNodes([]uint64{3, 4})
		require.NoError(t, err)
		assert.Equal(t, map[uint64]sable.Digest{3: nodes[0], 4: nodes[1]}, found)
	})
}

func TestStateSyncKeepsNoteTags(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		chain := bstorage.NewChain(metrics, db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))
		require.NoError(t, chain.UpdateNoteTags([]sable.NoteTag{1, 2}))

		err := sync.Apply(unittest.StateSyncUpdateFixture(5))
		require.NoError(t, err)

		tags, err := chain.NoteTags()
		require.NoError(t, err)
		assert.Equal(t, []sable.NoteTag{1, 2}, tags)
		height, err := chain.SyncHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(5), height)
	})
}

// TestStateSyncAtomicity covers the all-or-nothing guarantee: a batch that
// fails halfway must leave no trace in any table.
func TestStateSyncAtomicity(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		notes := bstorage.NewNotes(db)
		chain := bstorage.NewChain(metrics, db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))

		note := unittest.NoteRecordFixture(
			unittest.WithNoteStatus(sable.NoteStatusCommitted), unittest.WithNullifier("0xaa"))
		require.NoError(t, notes.StoreInputNote(note, nil))

		// the batch consumes the note but then references a transaction the
		// store never saw, which fails the application late in the batch
		update := unittest.StateSyncUpdateFixture(42)
		update.Nullifiers = []sable.Nullifier{"0xaa"}
		update.NullifierBlockNums = []uint64{42}
		update.TransactionIDs = []sable.Digest{unittest.DigestFixture()}
		update.TransactionBlockNums = []uint64{42}

		err := sync.Apply(update)
		require.ErrorIs(t, err, storage.ErrNotFound)

		// the cursor did not move
		height, err := chain.SyncHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), height)

		// the note was not consumed
		found, err := notes.ByIDs([]sable.Digest{note.NoteID})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, sable.NoteStatusCommitted, found[0].Status)
		assert.Nil(t, found[0].NullifierHeight)

		// the header was not stored
		_, err = chain.ByBlockNum(42)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestStateSyncCursorRegression(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		chain := bstorage.NewChain(metrics, db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))
		require.NoError(t, sync.Apply(unittest.StateSyncUpdateFixture(50)))

		// a batch behind the cursor must be rejected
		err := sync.Apply(unittest.StateSyncUpdateFixture(40))
		require.ErrorIs(t, err, storage.ErrInvalidTransition)

		height, err := chain.SyncHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(50), height)
	})
}

func TestStateSyncEmptyBatch(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		chain := bstorage.NewChain(metrics, db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))
		require.NoError(t, sync.Apply(unittest.StateSyncUpdateFixture(30)))

		// an empty batch re-delivers the current tip and keeps the cursor
		err := sync.Apply(unittest.StateSyncUpdateFixture(30))
		require.NoError(t, err)

		height, err := chain.SyncHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(30), height)
	})
}

func TestStateSyncLengthMismatch(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		chain := bstorage.NewChain(metrics, db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))

		update := unittest.StateSyncUpdateFixture(10)
		update.Nullifiers = []sable.Nullifier{"0xaa", "0xbb"}
		update.NullifierBlockNums = []uint64{10}

		err := sync.Apply(update)
		require.ErrorIs(t, err, storage.ErrLengthMismatch)

		// nothing of the malformed batch was applied
		height, err := chain.SyncHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), height)
		_, err = chain.ByBlockNum(10)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

// TestStateSyncNoteLifecycle walks one note through its full life: stored
// pending, committed by one batch, marked processing by a local transaction,
// consumed by a later batch.
func TestStateSyncNoteLifecycle(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		metrics := metrics.NewNoopCollector()
		notes := bstorage.NewNotes(db)
		transactions := bstorage.NewTransactions(db)
		chain := bstorage.NewChain(metrics, db)
		sync := bstorage.NewStateSync(unittest.Logger(), metrics, db)

		require.NoError(t, db.Update(procedure.Bootstrap()))

		note := unittest.NoteRecordFixture(unittest.WithNullifier("0xaa"))
		require.NoError(t, notes.StoreOutputNote(note, nil))

		// block 10 commits the note
		commit := unittest.StateSyncUpdateFixture(10)
		commit.OutputNoteIDs = []sable.Digest{note.NoteID}
		commit.OutputNoteProofs = [][]byte{unittest.RandomBytes(64)}
		require.NoError(t, sync.Apply(commit))

		found, err := notes.ByIDs([]sable.Digest{note.NoteID})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, sable.NoteStatusCommitted, found[0].Status)

		// a local transaction starts spending the note
		spender := unittest.TransactionRecordFixture(unittest.WithTransactionScriptHash(sable.ZeroDigest))
		require.NoError(t, transactions.Store(spender))
		require.NoError(t, notes.MarkConsumerTransaction(note.NoteID, spender.ID, 1700000000))

		found, err = notes.ByIDs([]sable.Digest{note.NoteID})
		require.NoError(t, err)
		assert.Equal(t, sable.NoteStatusProcessing, found[0].Status)

		// block 20 exposes the nullifier and confirms the transaction
		consume := unittest.StateSyncUpdateFixture(20)
		consume.Nullifiers = []sable.Nullifier{"0xaa"}
		consume.NullifierBlockNums = []uint64{20}
		consume.TransactionIDs = []sable.Digest{spender.ID}
		consume.TransactionBlockNums = []uint64{20}
		require.NoError(t, sync.Apply(consume))

		found, err = notes.ByIDs([]sable.Digest{note.NoteID})
		require.NoError(t, err)
		assert.Equal(t, sable.NoteStatusConsumed, found[0].Status)
		require.NotNil(t, found[0].NullifierHeight)
		assert.Equal(t, uint64(20), *found[0].NullifierHeight)

		uncommitted, err := transactions.ByFilter(sable.TransactionFilterUncommitted)
		require.NoError(t, err)
		assert.Empty(t, uncommitted)

		height, err := chain.SyncHeight()
		require.NoError(t, err)
		assert.Equal(t, uint64(20), height)
	})
}
