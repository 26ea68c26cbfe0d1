package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Event is one inbound form submission as delivered by the form host.
//
// Exactly which fields are populated depends on how the host was triggered:
// a spreadsheet-style trigger fills NamedValues, a form trigger fills
// Response, and a manual run may carry neither. Raw always holds the whole
// decoded object in key order.
type Event struct {
	NamedValues *RawSubmission `json:"namedValues,omitempty"`
	Response    *FormResponse  `json:"response,omitempty"`
	Raw         *RawSubmission `json:"-"`
}

// FormResponse is an itemized response recorded by the form.
type FormResponse struct {
	ID            string         `json:"id,omitempty"`
	Timestamp     string         `json:"timestamp,omitempty"`
	ItemResponses []ItemResponse `json:"itemResponses"`
}

// ItemResponse is the answer to a single form item.
type ItemResponse struct {
	Title    string `json:"title"`
	Response any    `json:"response"`
}

// Flatten turns the itemized response into a title keyed raw mapping.
// A repeated title keeps its first position and its last answer.
func (r *FormResponse) Flatten() *RawSubmission {
	raw := NewRawSubmission()
	if r == nil {
		return raw
	}

	for _, item := range r.ItemResponses {
		raw.Set(item.Title, item.Response)
	}

	return raw
}

// UnmarshalJSON decodes the known shapes and keeps the full object as Raw.
func (e *Event) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	raw := NewRawSubmission()
	if err := json.Unmarshal(data, raw); err != nil {
		return fmt.Errorf("failed to decode event object: %w", err)
	}

	var shape struct {
		NamedValues *RawSubmission `json:"namedValues"`
		Response    *FormResponse  `json:"response"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return fmt.Errorf("failed to decode event fields: %w", err)
	}

	e.NamedValues = shape.NamedValues
	e.Response = shape.Response
	e.Raw = raw

	return nil
}
