package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/models"
)

type fakeTaskSource struct {
	tasks []models.Task
	err   error
}

func (f *fakeTaskSource) ListDue(_ context.Context, before time.Time) ([]models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}

	var due []models.Task
	for _, task := range f.tasks {
		if task.Completed || task.DueDate == nil {
			continue
		}
		if !task.DueDate.After(before) {
			due = append(due, task)
		}
	}
	return due, nil
}

type fakeBroadcaster struct {
	events []TaskDueEvent
}

func (f *fakeBroadcaster) Broadcast(event TaskDueEvent) {
	f.events = append(f.events, event)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestPollerCheckDueTasks(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	source := &fakeTaskSource{tasks: []models.Task{
		{ID: "t1", UserID: "u1", Title: "Pay rent", Category: models.CategoryBills, DueDate: timePtr(past)},
		{ID: "t2", UserID: "u1", Title: "Done already", Category: models.CategoryWork, DueDate: timePtr(past), Completed: true},
		{ID: "t3", UserID: "u2", Title: "Not yet", Category: models.CategoryWork, DueDate: timePtr(future)},
		{ID: "t4", UserID: "u2", Title: "No due date", Category: models.CategoryOther},
	}}
	sink := &fakeBroadcaster{}

	poller := NewPoller(zerolog.Nop(), source, sink, "* * * * *")
	poller.CheckDueTasks(context.Background())

	require.Len(t, sink.events, 1)
	assert.Equal(t, "taskDue", sink.events[0].Type)
	assert.Equal(t, "t1", sink.events[0].Task.ID)
	assert.Equal(t, "u1", sink.events[0].Task.UserID)
}

func TestPollerCheckDueTasks_SourceError(t *testing.T) {
	t.Parallel()

	source := &fakeTaskSource{err: errors.New("connection refused")}
	sink := &fakeBroadcaster{}

	poller := NewPoller(zerolog.Nop(), source, sink, "* * * * *")
	poller.CheckDueTasks(context.Background())

	assert.Empty(t, sink.events)
}

func TestPollerStart_BadSchedule(t *testing.T) {
	t.Parallel()

	poller := NewPoller(zerolog.Nop(), &fakeTaskSource{}, &fakeBroadcaster{}, "not a schedule")
	assert.Error(t, poller.Start())
}
