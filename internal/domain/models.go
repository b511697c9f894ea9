package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Field keys agreed with the census spreadsheet API. The API does not
// publish a schema; these are the keys the portal relies on by name.
const (
	KeyHouseholdID = "Household_ID"
	KeyMemberID    = "Member_ID"
	KeyChildID     = "Child_ID"
	KeyTimestamp   = "Timestamp"
	KeyBlockName   = "Block_Name"
	KeyAddress     = "Residential_Address"
	KeyContactNo   = "Contact_No"
	KeyFirstName   = "First_Name"
	KeyLastName    = "Last_Name"
	KeyDateOfBirth = "Date_of_Birth"
	KeyAge         = "Age"
)

// Field is one named value of a Household, Member or Child.
// Value holds the textual form of the JSON value: strings verbatim,
// numbers and booleans as written by the API.
type Field struct {
	Key   string
	Value string
	Null  bool
}

// Empty reports whether the field has no displayable value.
func (f Field) Empty() bool { return f.Null || f.Value == "" }

// Fields is an ordered flat mapping. Order follows the API response so the
// detail view lists fields the way the spreadsheet columns are laid out.
type Fields []Field

// Get returns the value for key, or "" when absent or null.
func (f Fields) Get(key string) string {
	fld, ok := f.Lookup(key)
	if !ok || fld.Null {
		return ""
	}
	return fld.Value
}

func (f Fields) Lookup(key string) (Field, bool) {
	for _, fld := range f {
		if fld.Key == key {
			return fld, true
		}
	}
	return Field{}, false
}

// Keys returns the field keys in order.
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, fld := range f {
		keys[i] = fld.Key
	}
	return keys
}

// Set replaces the value of an existing key in place or appends a new one.
func (f *Fields) Set(key, value string) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			(*f)[i].Null = false
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: value})
}

// UnmarshalJSON decodes a JSON object keeping key order. A repeated key keeps
// its first position and its last value.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields: expected object, got %v", tok)
	}
	out := Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("fields: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("fields: value of %q: %w", key, err)
		}
		fld, err := decodeField(key, raw)
		if err != nil {
			return err
		}
		if _, exists := out.Lookup(key); exists {
			out.Set(key, fld.Value)
			continue
		}
		out = append(out, fld)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}

func decodeField(key string, raw json.RawMessage) (Field, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return Field{Key: key, Null: true}, nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Field{}, fmt.Errorf("fields: value of %q: %w", key, err)
		}
		return Field{Key: key, Value: s}, nil
	default:
		// numbers, booleans and nested values are kept as written
		return Field{Key: key, Value: string(raw)}, nil
	}
}

// MarshalJSON writes the fields as a JSON object in order. Values are
// always written as strings, which is what the write endpoint expects.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fld := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(fld.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if fld.Null {
			buf.WriteString("null")
			continue
		}
		v, err := json.Marshal(fld.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Record is one Household with its Members and Children, the unit returned
// by the read API.
type Record struct {
	Household Fields   `json:"Household"`
	Members   []Fields `json:"Members"`
	Children  []Fields `json:"Children"`
}

func (r Record) HouseholdID() string { return r.Household.Get(KeyHouseholdID) }

// Summary carries the aggregate counts reported by the read API.
type Summary struct {
	Households int `json:"households"`
	Members    int `json:"members"`
	Children   int `json:"children"`
}

// Payload is the body POSTed to the write endpoint.
type Payload struct {
	Household Fields   `json:"household"`
	Members   []Fields `json:"members"`
	Children  []Fields `json:"children"`
}

// Outcome classifies one submission attempt.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected" // API answered with a non-success result
	OutcomeFailed   Outcome = "failed"   // transport failure
	OutcomeInvalid  Outcome = "invalid"  // stopped before any network call
)

// SubmissionAttempt is one journal entry. It carries counts and the remote
// message only; census field values are never stored locally.
type SubmissionAttempt struct {
	ID        int64
	Outcome   Outcome
	Members   int
	Children  int
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}
