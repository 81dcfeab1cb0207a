package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// EventType names a task lifecycle transition.
type EventType string

// Task lifecycle event types.
const (
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"
)

// Action returns the part of the type after the entity prefix, e.g. "created".
func (t EventType) Action() string {
	s := string(t)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// TaskEvent records a completed task write.
type TaskEvent struct {
	ID      uuid.UUID `json:"id"`
	Type    EventType `json:"type"`
	TaskID  uuid.UUID `json:"taskId"`
	ActorID uuid.UUID `json:"actorId"`

	// Task is the state after the write, or the last state for deletions.
	Task *domain.Task `json:"task"`

	OccurredAt time.Time `json:"occurredAt"`
}

// NewTaskEvent creates an event of type typ for task, performed by actor.
func NewTaskEvent(typ EventType, actor uuid.UUID, task *domain.Task) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       typ,
		TaskID:     task.ID,
		ActorID:    actor,
		Task:       task,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler processes emitted events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter publishes events to handlers without the caller knowing which.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}
