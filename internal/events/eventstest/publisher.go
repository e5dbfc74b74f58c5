// Package eventstest provides an in-memory events.EventPublisher for tests.
package eventstest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/training-portal/internal/events"
)

// MockEventPublisher keeps published events in memory
type MockEventPublisher struct {
	mu     sync.Mutex
	events []events.ActivityEvent
	logger *slog.Logger
	err    error
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(_ context.Context, event events.ActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	if m.logger != nil {
		m.logger.Debug("Mock event published", "type", event.Type)
	}
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

// FailWith makes every following Publish return err
func (m *MockEventPublisher) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockEventPublisher) GetPublishedEvents() []events.ActivityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.ActivityEvent(nil), m.events...)
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// Types returns the types of the published events in order
func (m *MockEventPublisher) Types() []events.ActivityType {
	var out []events.ActivityType
	for _, e := range m.GetPublishedEvents() {
		out = append(out, e.Type)
	}
	return out
}
