// Package models defines the data shapes shared by the relay pipeline.
package models

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RawSubmission maps human-authored labels to a scalar or a list of scalars.
type RawSubmission = orderedmap.OrderedMap[string, any]

// NewRawSubmission returns an empty raw submission.
func NewRawSubmission() *RawSubmission {
	return orderedmap.New[string, any]()
}

// Fields is a normalized submission: label to a single cleaned string.
// Iteration follows insertion order so tie-breaking stays deterministic.
type Fields struct {
	values *orderedmap.OrderedMap[string, string]
}

// NewFields returns an empty Fields.
func NewFields() *Fields {
	return &Fields{values: orderedmap.New[string, string]()}
}

// FieldsFromPairs builds Fields from alternating label, value arguments.
func FieldsFromPairs(pairs ...string) *Fields {
	f := NewFields()
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}

	return f
}

// Set stores value under label, keeping the original position of an existing label.
func (f *Fields) Set(label, value string) {
	if f.values == nil {
		f.values = orderedmap.New[string, string]()
	}

	f.values.Set(label, value)
}

// Get returns the value stored under the exact label.
func (f *Fields) Get(label string) (string, bool) {
	if f == nil || f.values == nil {
		return "", false
	}

	return f.values.Get(label)
}

// Len returns the number of labels.
func (f *Fields) Len() int {
	if f == nil || f.values == nil {
		return 0
	}

	return f.values.Len()
}

// Empty reports whether there are no labels.
func (f *Fields) Empty() bool {
	return f.Len() == 0
}

// Each calls fn for every label in insertion order.
func (f *Fields) Each(fn func(label, value string)) {
	if f == nil || f.values == nil {
		return
	}

	for pair := f.values.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Keys returns the labels in insertion order.
func (f *Fields) Keys() []string {
	keys := make([]string, 0, f.Len())
	f.Each(func(label, _ string) {
		keys = append(keys, label)
	})

	return keys
}

// Map returns an unordered copy.
func (f *Fields) Map() map[string]string {
	out := make(map[string]string, f.Len())
	f.Each(func(label, value string) {
		out[label] = value
	})

	return out
}

// Equal reports whether both hold the same labels, values and order.
func (f *Fields) Equal(other *Fields) bool {
	if f.Len() != other.Len() {
		return false
	}

	a, b := f.Keys(), other.Keys()
	for i := range a {
		if a[i] != b[i] {
			return false
		}

		va, _ := f.Get(a[i])
		vb, _ := other.Get(b[i])

		if va != vb {
			return false
		}
	}

	return true
}

// Raw converts the normalized fields back into a raw submission.
func (f *Fields) Raw() *RawSubmission {
	raw := NewRawSubmission()
	f.Each(func(label, value string) {
		raw.Set(label, value)
	})

	return raw
}

// MarshalJSON writes the fields as an ordered JSON object.
func (f *Fields) MarshalJSON() ([]byte, error) {
	if f == nil || f.values == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(f.values)
}

// Payload is the canonical body sent to the receiving endpoint.
type Payload struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Name       string `json:"name"`
	Timestamp  string `json:"timestamp"`
	ResponseID string `json:"response_id"`
}
