package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/sablelabs/sable-client-go/model/sable"
)

func InsertInputNote(note *sable.NoteRecord) func(*badger.Txn) error {
	return insert(makePrefix(codeInputNote, note.NoteID), note)
}

func UpdateInputNote(note *sable.NoteRecord) func(*badger.Txn) error {
	return update(makePrefix(codeInputNote, note.NoteID), note)
}

func RetrieveInputNote(noteID sable.Digest, note *sable.NoteRecord) func(*badger.Txn) error {
	return retrieve(makePrefix(codeInputNote, noteID), note)
}

func InsertOutputNote(note *sable.NoteRecord) func(*badger.Txn) error {
	return insert(makePrefix(codeOutputNote, note.NoteID), note)
}

func UpdateOutputNote(note *sable.NoteRecord) func(*badger.Txn) error {
	return update(makePrefix(codeOutputNote, note.NoteID), note)
}

func RetrieveOutputNote(noteID sable.Digest, note *sable.NoteRecord) func(*badger.Txn) error {
	return retrieve(makePrefix(codeOutputNote, noteID), note)
}

// FindInputNotes collects all input notes matching the given status filter,
// ordered by note id.
func FindInputNotes(filter sable.NoteFilter, notes *[]*sable.NoteRecord) func(*badger.Txn) error {
	return traverse(makePrefix(codeInputNote), noteIterationFunc(filter, notes))
}

// FindOutputNotes collects all output notes matching the given status filter,
// ordered by note id.
func FindOutputNotes(filter sable.NoteFilter, notes *[]*sable.NoteRecord) func(*badger.Txn) error {
	return traverse(makePrefix(codeOutputNote), noteIterationFunc(filter, notes))
}

// noteIterationFunc returns an iteration function which collects all notes
// whose status matches the given filter.
func noteIterationFunc(filter sable.NoteFilter, notes *[]*sable.NoteRecord) func() (checkFunc, createFunc, handleFunc) {
	return func() (checkFunc, createFunc, handleFunc) {
		check := func(key []byte) bool {
			return true
		}
		var val sable.NoteRecord
		create := func() interface{} {
			return &val
		}
		handle := func() error {
			if !filter.Match(val.Status) {
				return nil
			}
			note := val
			*notes = append(*notes, &note)
			return nil
		}
		return check, create, handle
	}
}

// InsertNoteScript stores a note script under its hash. Scripts are
// content-addressed, so re-inserting an identical script is a no-op, while a
// different script under the same hash fails.
func InsertNoteScript(script *sable.NoteScript) func(*badger.Txn) error {
	return insertBlob(makePrefix(codeNoteScript, script.ScriptHash), script)
}

// RetrieveNoteScript retrieves the note script with the given hash.
func RetrieveNoteScript(scriptHash sable.Digest, script *sable.NoteScript) func(*badger.Txn) error {
	return retrieve(makePrefix(codeNoteScript, scriptHash), script)
}
