package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// MockWriter records Write calls for tests.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, result model.ItemizationResult) (string, error)
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error  error
	Result model.ItemizationResult
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write records the call and delegates to WriteFunc when set.
func (m *MockWriter) Write(ctx context.Context, result model.ItemizationResult) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++

	id := "mock-spreadsheet"
	var err error
	if m.WriteFunc != nil {
		id, err = m.WriteFunc(ctx, result)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Result: result,
		Error:  err,
	})

	return id, err
}

// LastResult returns the most recent result written, if any.
func (m *MockWriter) LastResult() (model.ItemizationResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.WriteCalls) == 0 {
		return model.ItemizationResult{}, false
	}
	return m.WriteCalls[len(m.WriteCalls)-1].Result, true
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCalls = make([]WriteCall, 0)
	m.WriteCallCount = 0
}
