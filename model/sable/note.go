package sable

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Nullifier is the value published on-chain when a note is consumed. The
// store treats nullifiers as opaque strings and only ever compares them for
// equality, so observing one does not require parsing note contents.
type Nullifier string

// NoteStatus tracks a note through its lifecycle. Transitions are strictly
// forward; Consumed is terminal.
type NoteStatus int

const (
	// NoteStatusUnknown indicates that the note status is not known.
	NoteStatusUnknown NoteStatus = iota
	// NoteStatusPending is the status of a note created or observed locally
	// that has not been confirmed on-chain yet.
	NoteStatusPending
	// NoteStatusCommitted is the status of a note whose inclusion proof was
	// received from a sync batch.
	NoteStatusCommitted
	// NoteStatusProcessing is the status of a note selected as input to a
	// locally built transaction that is awaiting confirmation.
	NoteStatusProcessing
	// NoteStatusConsumed is the status of a note whose nullifier was observed
	// on-chain. It is terminal.
	NoteStatusConsumed
)

// String returns the string representation of a note status.
func (s NoteStatus) String() string {
	return [...]string{"UNKNOWN", "PENDING", "COMMITTED", "PROCESSING", "CONSUMED"}[s]
}

// CanTransitionTo reports whether a note may move from status s to the given
// status. The lifecycle only ever moves forward along
// Pending -> Committed -> Processing -> Consumed, where intermediate states
// may be skipped.
func (s NoteStatus) CanTransitionTo(to NoteStatus) bool {
	if s == NoteStatusUnknown || to == NoteStatusUnknown {
		return false
	}
	return to > s
}

// NoteFilter selects notes by status in store queries.
type NoteFilter int

const (
	// NoteFilterAll matches every note regardless of status.
	NoteFilterAll NoteFilter = iota
	NoteFilterPending
	NoteFilterCommitted
	NoteFilterProcessing
	NoteFilterConsumed
)

// String returns the string representation of a note filter.
func (f NoteFilter) String() string {
	return [...]string{"ALL", "PENDING", "COMMITTED", "PROCESSING", "CONSUMED"}[f]
}

// Match reports whether a note with the given status passes the filter.
func (f NoteFilter) Match(status NoteStatus) bool {
	switch f {
	case NoteFilterAll:
		return true
	case NoteFilterPending:
		return status == NoteStatusPending
	case NoteFilterCommitted:
		return status == NoteStatusCommitted
	case NoteFilterProcessing:
		return status == NoteStatusProcessing
	case NoteFilterConsumed:
		return status == NoteStatusConsumed
	}
	return false
}

// NoteDetails is the structured part of a note handed over by the prover
// layer. The nullifier is required; the script hash references the
// content-addressed note script table and is zero for scriptless notes. Any
// other field of the boundary JSON is preserved verbatim in Extra so that
// richer producers round-trip through the store unharmed.
type NoteDetails struct {
	Nullifier  Nullifier
	ScriptHash Digest
	Extra      map[string]jsoniter.RawMessage
}

// ParseNoteDetails decodes the JSON note details produced by the prover
// layer.
func ParseNoteDetails(data []byte) (NoteDetails, error) {
	var details NoteDetails
	err := json.Unmarshal(data, &details)
	if err != nil {
		return NoteDetails{}, fmt.Errorf("could not parse note details: %w", err)
	}
	return details, nil
}

func (d *NoteDetails) UnmarshalJSON(data []byte) error {
	var fields map[string]jsoniter.RawMessage
	err := json.Unmarshal(data, &fields)
	if err != nil {
		return err
	}

	raw, ok := fields["nullifier"]
	if !ok {
		return fmt.Errorf("note details have no nullifier")
	}
	err = json.Unmarshal(raw, &d.Nullifier)
	if err != nil {
		return fmt.Errorf("could not decode nullifier: %w", err)
	}
	delete(fields, "nullifier")

	d.ScriptHash = ZeroDigest
	if raw, ok := fields["script_hash"]; ok {
		err = json.Unmarshal(raw, &d.ScriptHash)
		if err != nil {
			return fmt.Errorf("could not decode script hash: %w", err)
		}
		delete(fields, "script_hash")
	}

	d.Extra = nil
	if len(fields) > 0 {
		d.Extra = fields
	}
	return nil
}

func (d NoteDetails) MarshalJSON() ([]byte, error) {
	fields := make(map[string]jsoniter.RawMessage, len(d.Extra)+2)
	for name, raw := range d.Extra {
		fields[name] = raw
	}
	raw, err := json.Marshal(d.Nullifier)
	if err != nil {
		return nil, fmt.Errorf("could not encode nullifier: %w", err)
	}
	fields["nullifier"] = raw
	if d.ScriptHash != ZeroDigest {
		raw, err := json.Marshal(d.ScriptHash)
		if err != nil {
			return nil, fmt.Errorf("could not encode script hash: %w", err)
		}
		fields["script_hash"] = raw
	}
	return json.Marshal(fields)
}

// NoteRecord is the stored representation of a note. Input and output notes
// share the shape and live in separate tables; a note sent to the own account
// appears in both.
type NoteRecord struct {

	// NoteID uniquely identifies the note. In practice it is unique across
	// the input and output tables as well.
	NoteID Digest

	// Assets is the serialized asset list carried by the note. Opaque.
	Assets []byte

	// Recipient is the serialized recipient commitment. Opaque.
	Recipient string

	Status NoteStatus

	// Metadata is the boundary JSON describing sender and tag. It is stored
	// verbatim and only set once the note is known on-chain.
	Metadata []byte

	Details NoteDetails

	// InclusionProof is the serialized block-inclusion evidence, set when a
	// sync batch commits the note.
	InclusionProof []byte

	// ConsumerTransactionID references the locally built transaction that
	// spends this note, once one exists.
	ConsumerTransactionID *Digest

	// NullifierHeight is the block at which the note's nullifier was observed.
	// It is set exactly once.
	NullifierHeight *uint64

	// CreatedAt and SubmittedAt are unix timestamps; SubmittedAt is set when
	// a consuming transaction is handed to the network.
	CreatedAt   uint64
	SubmittedAt *uint64
}

// Note is the read-time projection of a note record. Script carries the
// payload of the referenced note script and ConsumerAccountID the account of
// the consuming transaction; both are resolved by the query, never stored.
type Note struct {
	NoteRecord

	Script            []byte
	ConsumerAccountID *AccountID
}

// NoteScript is a content-addressed note script blob, shared across all notes
// referencing the same hash.
type NoteScript struct {
	ScriptHash Digest
	Script     []byte
}
