package services

import (
	"context"
	"sync"
)

// MockEventPublisher records published events for testing
type MockEventPublisher struct {
	mu     sync.Mutex
	events []BookingEvent
	// Err, when set, is returned from every Publish call
	Err error
}

// NewMockEventPublisher creates a new mock publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(_ context.Context, event BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, event)
	return nil
}

// Close does nothing
func (m *MockEventPublisher) Close() error { return nil }

// Events returns a copy of the recorded events
func (m *MockEventPublisher) Events() []BookingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BookingEvent, len(m.events))
	copy(out, m.events)
	return out
}
