package unittest

import (
	crand "crypto/rand"
	"fmt"
	"math/rand"

	"github.com/sablelabs/sable-client-go/model/sable"
)

func RandomBytes(n int) []byte {
	b := make([]byte, n)
	read, err := crand.Read(b)
	if err != nil {
		panic("cannot read random bytes")
	}
	if read != n {
		panic(fmt.Errorf("cannot read enough random bytes (got %d of %d)", read, n))
	}
	return b
}

func DigestFixture() sable.Digest {
	var digest sable.Digest
	_, _ = crand.Read(digest[:])
	return digest
}

func AccountIDFixture() sable.AccountID {
	return sable.AccountID(rand.Uint64())
}

func NullifierFixture() sable.Nullifier {
	return sable.Nullifier(fmt.Sprintf("0x%x", RandomBytes(32)))
}

func NoteTagsFixture(n int) []sable.NoteTag {
	tags := make([]sable.NoteTag, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, sable.NoteTag(rand.Uint64()))
	}
	return tags
}

func AccountFixture(opts ...func(*sable.Account)) *sable.Account {
	account := &sable.Account{
		ID:          AccountIDFixture(),
		Nonce:       0,
		CodeRoot:    DigestFixture(),
		StorageRoot: DigestFixture(),
		VaultRoot:   DigestFixture(),
		Committed:   true,
	}
	for _, opt := range opts {
		opt(account)
	}
	return account
}

func WithAccountID(accountID sable.AccountID) func(*sable.Account) {
	return func(account *sable.Account) {
		account.ID = accountID
	}
}

func WithNonce(nonce uint64) func(*sable.Account) {
	return func(account *sable.Account) {
		account.Nonce = nonce
	}
}

func WithSeed(seed []byte) func(*sable.Account) {
	return func(account *sable.Account) {
		account.Seed = seed
		account.Committed = false
	}
}

func AccountCodeFixture() *sable.AccountCode {
	return &sable.AccountCode{
		Root: DigestFixture(),
		Code: RandomBytes(128),
	}
}

func AccountStorageFixture() *sable.AccountStorage {
	return &sable.AccountStorage{
		Root:  DigestFixture(),
		Slots: RandomBytes(64),
	}
}

func AccountVaultFixture() *sable.AccountVault {
	return &sable.AccountVault{
		Root:   DigestFixture(),
		Assets: RandomBytes(64),
	}
}

func AccountAuthFixture(opts ...func(*sable.AccountAuth)) *sable.AccountAuth {
	auth := &sable.AccountAuth{
		AccountID: AccountIDFixture(),
		AuthInfo:  RandomBytes(64),
		PublicKey: RandomBytes(32),
	}
	for _, opt := range opts {
		opt(auth)
	}
	return auth
}

func WithAuthAccountID(accountID sable.AccountID) func(*sable.AccountAuth) {
	return func(auth *sable.AccountAuth) {
		auth.AccountID = accountID
	}
}

func NoteRecordFixture(opts ...func(*sable.NoteRecord)) *sable.NoteRecord {
	record := &sable.NoteRecord{
		NoteID:    DigestFixture(),
		Assets:    RandomBytes(64),
		Recipient: fmt.Sprintf("0x%x", RandomBytes(16)),
		Status:    sable.NoteStatusPending,
		Details: sable.NoteDetails{
			Nullifier: NullifierFixture(),
		},
		CreatedAt: uint64(rand.Intn(1000)),
	}
	for _, opt := range opts {
		opt(record)
	}
	return record
}

func WithNoteID(noteID sable.Digest) func(*sable.NoteRecord) {
	return func(record *sable.NoteRecord) {
		record.NoteID = noteID
	}
}

func WithNoteStatus(status sable.NoteStatus) func(*sable.NoteRecord) {
	return func(record *sable.NoteRecord) {
		record.Status = status
	}
}

func WithNullifier(nullifier sable.Nullifier) func(*sable.NoteRecord) {
	return func(record *sable.NoteRecord) {
		record.Details.Nullifier = nullifier
	}
}

func WithScriptHash(scriptHash sable.Digest) func(*sable.NoteRecord) {
	return func(record *sable.NoteRecord) {
		record.Details.ScriptHash = scriptHash
	}
}

func NoteScriptFixture() *sable.NoteScript {
	return &sable.NoteScript{
		ScriptHash: DigestFixture(),
		Script:     RandomBytes(128),
	}
}

func TransactionRecordFixture(opts ...func(*sable.TransactionRecord)) *sable.TransactionRecord {
	record := &sable.TransactionRecord{
		ID:                DigestFixture(),
		AccountID:         AccountIDFixture(),
		InitAccountState:  DigestFixture(),
		FinalAccountState: DigestFixture(),
		InputNotes:        []sable.Digest{DigestFixture()},
		OutputNotes:       []sable.Digest{DigestFixture()},
		ScriptHash:        DigestFixture(),
		ScriptInputs:      RandomBytes(32),
		BlockNum:          uint64(rand.Intn(1000)),
	}
	for _, opt := range opts {
		opt(record)
	}
	return record
}

func WithTransactionID(transactionID sable.Digest) func(*sable.TransactionRecord) {
	return func(record *sable.TransactionRecord) {
		record.ID = transactionID
	}
}

func WithTransactionAccountID(accountID sable.AccountID) func(*sable.TransactionRecord) {
	return func(record *sable.TransactionRecord) {
		record.AccountID = accountID
	}
}

func WithTransactionScriptHash(scriptHash sable.Digest) func(*sable.TransactionRecord) {
	return func(record *sable.TransactionRecord) {
		record.ScriptHash = scriptHash
	}
}

func TransactionScriptFixture() *sable.TransactionScript {
	return &sable.TransactionScript{
		ScriptHash: DigestFixture(),
		Program:    RandomBytes(256),
	}
}

func BlockHeaderFixture(opts ...func(*sable.BlockHeader)) *sable.BlockHeader {
	header := &sable.BlockHeader{
		BlockNum:       uint64(rand.Intn(1000)) + 1,
		Header:         RandomBytes(96),
		ChainMMRPeaks:  RandomBytes(64),
		HasClientNotes: false,
	}
	for _, opt := range opts {
		opt(header)
	}
	return header
}

func WithBlockNum(blockNum uint64) func(*sable.BlockHeader) {
	return func(header *sable.BlockHeader) {
		header.BlockNum = blockNum
	}
}

func WithClientNotes() func(*sable.BlockHeader) {
	return func(header *sable.BlockHeader) {
		header.HasClientNotes = true
	}
}

// StateSyncUpdateFixture returns an otherwise empty sync batch for the given
// block number.
func StateSyncUpdateFixture(blockNum uint64, opts ...func(*sable.StateSyncUpdate)) *sable.StateSyncUpdate {
	update := &sable.StateSyncUpdate{
		BlockHeader: *BlockHeaderFixture(WithBlockNum(blockNum)),
	}
	for _, opt := range opts {
		opt(update)
	}
	return update
}
