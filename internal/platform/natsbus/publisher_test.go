package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs       []published
	publishErr error
	drained    bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.msgs = append(c.msgs, published{subject: subject, data: data})
	return nil
}

func (c *fakeConn) Drain() error {
	c.drained = true
	return nil
}

func sampleEvent(typ events.EventType) *events.TaskEvent {
	user := uuid.New()
	return events.NewTaskEvent(typ, user, &domain.Task{
		ID:           uuid.New(),
		Title:        "t",
		Description:  "d",
		DueDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       domain.TaskStatusToDo,
		Priority:     domain.TaskPriorityLow,
		AssignedUser: user,
		CreatedBy:    user,
	})
}

func TestSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		typ    events.EventType
		want   string
	}{
		{"taskboard", events.TaskCreated, "taskboard.task.created"},
		{"taskboard.", events.TaskUpdated, "taskboard.task.updated"},
		{"acme.prod", events.TaskDeleted, "acme.prod.task.deleted"},
		{"", events.TaskCreated, "task.created"},
	}

	for _, tt := range tests {
		p := NewPublisher(&fakeConn{}, tt.prefix, nil)
		assert.Equal(t, tt.want, p.Subject(tt.typ))
	}
}

func TestHandleEventPublishesJSON(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	p := NewPublisher(conn, "taskboard", nil)
	ev := sampleEvent(events.TaskUpdated)

	require.NoError(t, p.HandleEvent(context.Background(), ev))

	require.Len(t, conn.msgs, 1)
	assert.Equal(t, "taskboard.task.updated", conn.msgs[0].subject)

	var decoded events.TaskEvent
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &decoded))
	assert.Equal(t, ev.ID, decoded.ID)
	assert.Equal(t, ev.TaskID, decoded.TaskID)
	assert.Equal(t, events.TaskUpdated, decoded.Type)
}

func TestHandleEventPublishError(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{publishErr: errors.New("nats: connection closed")}
	p := NewPublisher(conn, "taskboard", nil)

	err := p.HandleEvent(context.Background(), sampleEvent(events.TaskDeleted))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "taskboard.task.deleted")
}

func TestCloseDrains(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	require.NoError(t, NewPublisher(conn, "x", nil).Close())
	assert.True(t, conn.drained)
}
