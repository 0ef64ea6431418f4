package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/sablelabs/sable-client-go/model/sable"
)

const (

	// codes for versioned account state and account signing material
	codeAccount        = 1 // account rows keyed by (id, nonce)
	codeAccountAuth    = 2
	codeAuthPublicKey  = 3 // public key -> account id index
	codeAccountCode    = 4 // content-addressed account blobs
	codeAccountStorage = 5
	codeAccountVault   = 6

	// codes for the note tables and note scripts
	codeInputNote  = 10
	codeOutputNote = 11
	codeNoteScript = 12

	// codes for local transactions and transaction scripts
	codeTransaction       = 20
	codeTransactionScript = 21

	// codes for chain data and the sync cursor
	codeBlockHeader  = 30
	codeChainMMRNode = 31
	codeSyncState    = 32
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case sable.AccountID:
		return b(uint64(i))
	case sable.Digest:
		return i[:]
	case []byte:
		return i
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
