package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// MockEventEmitter records emitted events.
type MockEventEmitter struct {
	mu     sync.Mutex
	Events []*events.TaskEvent
	Err    error
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

func (m *MockEventEmitter) EmitEvent(_ context.Context, event *events.TaskEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return m.Err
}

// Types returns the types of the recorded events in order.
func (m *MockEventEmitter) Types() []events.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]events.EventType, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}
