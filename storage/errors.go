package storage

import (
	"errors"
)

var (
	// Note: there is another not found error: badger.ErrKeyNotFound. The difference between
	// badger.ErrKeyNotFound and storage.ErrNotFound is that:
	// badger.ErrKeyNotFound is the error returned by the badger API.
	// Modules in storage/badger and storage/badger/operation package both
	// return storage.ErrNotFound for not found error
	ErrNotFound = errors.New("key not found")

	ErrAlreadyExists = errors.New("key already exists")
	ErrDataMismatch  = errors.New("data for key is different")

	// ErrLengthMismatch is returned by bulk operations handed paired slices
	// of different lengths.
	ErrLengthMismatch = errors.New("paired slice lengths are different")

	// ErrInvalidTransition is returned when an update would move a note out
	// of a terminal status or the sync cursor backwards.
	ErrInvalidTransition = errors.New("invalid state transition")
)
