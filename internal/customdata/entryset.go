// Package customdata holds the editable working copy of a product's custom data.
//
// Fetched fields become entries of an EntrySet, addressed by synthetic slot
// identifiers rather than by their key, so that blank or duplicate keys can
// coexist while the set is being edited. CleanMapping collapses the set back
// into the mapping that is submitted to the registry.
package customdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformed is returned by Load when the stored custom data is not a JSON object of strings.
var ErrMalformed = errors.New("customdata: malformed custom data")

// SlotID identifies one entry of an EntrySet. Identifiers are never reused.
type SlotID string

// Entry is one editable key/value property
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Blank reports whether the entry would be dropped from the clean mapping.
func (e Entry) Blank() bool {
	return strings.TrimSpace(e.Key) == "" || strings.TrimSpace(e.Value) == ""
}

// Slot pairs an entry with its identifier
type Slot struct {
	ID SlotID `json:"slot"`
	Entry
}

// EntrySet is an ordered, append-only collection of entries.
// It is not safe for concurrent use.
type EntrySet struct {
	next    int
	order   []SlotID
	entries map[SlotID]*Entry
}

// NewEntrySet creates an empty set
func NewEntrySet() *EntrySet {
	return &EntrySet{entries: make(map[SlotID]*Entry)}
}

// Load builds an entry set from the JSON-encoded custom data of a product.
//
// Fields are added in mapping order. A Phase field is forced to
// PhaseTransport and the set always ends up with exactly one Transport Type
// entry whose value is empty. Any decoding problem fails the whole load.
func Load(raw string) (*EntrySet, error) {
	fields, err := decodeOrdered(raw)
	if err != nil {
		return nil, err
	}

	fields.Set(KeyTransportType, "")

	set := NewEntrySet()
	for _, key := range fields.Keys() {
		value := fields.values[key]
		if key == KeyPhase {
			value = PhaseTransport
		}
		id := set.Append()
		set.entries[id].Key = key
		set.entries[id].Value = value
	}
	return set, nil
}

// decodeOrdered parses a JSON object of strings into a Mapping, so fields come
// back in mapping order. Repeated keys keep their first position and their last value.
func decodeOrdered(raw string) (*Mapping, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}

	fields := NewMapping()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrMalformed, tok)
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrMalformed, key, err)
		}
		fields.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}

	return fields, nil
}

// Append adds a blank entry and returns its identifier
func (s *EntrySet) Append() SlotID {
	id := SlotID("input-" + strconv.Itoa(s.next))
	s.next++
	s.order = append(s.order, id)
	s.entries[id] = &Entry{}
	return id
}

// UpdateValue replaces the value of the addressed entry. It reports false and
// leaves the set untouched when id is unknown.
func (s *EntrySet) UpdateValue(id SlotID, value string) bool {
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	e.Value = value
	return true
}

// Get returns the entry stored under id
func (s *EntrySet) Get(id SlotID) (Entry, bool) {
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Len returns the number of entries
func (s *EntrySet) Len() int {
	return len(s.order)
}

// Slots returns every entry in slot order
func (s *EntrySet) Slots() []Slot {
	out := make([]Slot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Slot{ID: id, Entry: *s.entries[id]})
	}
	return out
}

// Visible returns the entries shown in the transport view, in slot order.
// Filtering only affects display: hidden entries are still part of CleanMapping.
func (s *EntrySet) Visible() []Slot {
	out := make([]Slot, 0, len(s.order))
	for _, slot := range s.Slots() {
		if Displayed(slot.Key) {
			out = append(out, slot)
		}
	}
	return out
}

// CleanMapping collapses the set into the mapping to submit. Entries with a
// blank key or value are skipped and later slots win over earlier ones with
// the same key.
func (s *EntrySet) CleanMapping() *Mapping {
	m := NewMapping()
	for _, id := range s.order {
		e := s.entries[id]
		if e.Blank() {
			continue
		}
		m.Set(e.Key, e.Value)
	}
	return m
}
