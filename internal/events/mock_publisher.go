package events

import (
	"context"
	"sync"
)

// MockPublisher records published events for assertions in tests.
type MockPublisher struct {
	mu        sync.Mutex
	Published []TicketSoldEvent
	Err       error
}

func (m *MockPublisher) PublishTicketSold(_ context.Context, event TicketSoldEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Published = append(m.Published, event)

	return nil
}

func (m *MockPublisher) Events() []TicketSoldEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]TicketSoldEvent(nil), m.Published...)
}
