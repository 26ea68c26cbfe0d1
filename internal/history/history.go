// Package history keeps the most recent itemized form responses so a
// submission can be recovered when the event itself carries no answers.
package history

import (
	"context"
	"errors"
	"sync"

	"formrelay/internal/models"
)

// ErrEmpty is returned by Latest when no response has been recorded.
var ErrEmpty = errors.New("no response recorded")

// DefaultCapacity bounds how many responses a store keeps.
const DefaultCapacity = 50

// ResponseHistory records and returns itemized responses.
type ResponseHistory interface {
	// Record stores a response as the newest entry.
	Record(ctx context.Context, resp *models.FormResponse) error
	// Latest returns the newest entry or ErrEmpty.
	Latest(ctx context.Context) (*models.FormResponse, error)
}

// Ensure implementations satisfy ResponseHistory.
var (
	_ ResponseHistory = (*Memory)(nil)
	_ ResponseHistory = (*Redis)(nil)
)

// Memory is an in-process ResponseHistory.
type Memory struct {
	mu        sync.RWMutex
	responses []*models.FormResponse
	capacity  int
}

// NewMemory creates an in-memory history keeping at most capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Memory{capacity: capacity}
}

// Record implements ResponseHistory.
func (m *Memory) Record(_ context.Context, resp *models.FormResponse) error {
	if resp == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses = append(m.responses, resp)
	if over := len(m.responses) - m.capacity; over > 0 {
		m.responses = m.responses[over:]
	}

	return nil
}

// Latest implements ResponseHistory.
func (m *Memory) Latest(_ context.Context) (*models.FormResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.responses) == 0 {
		return nil, ErrEmpty
	}

	return m.responses[len(m.responses)-1], nil
}

// Len returns the number of stored responses.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.responses)
}
