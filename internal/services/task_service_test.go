package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/models"
	"task-manager/internal/validation"
)

var testPageLimits = validation.PageLimits{
	DefaultLimit: 5,
	MaxLimit:     100,
}

func newTestTaskService(store TaskStore) TaskService {
	return NewTaskService(zerolog.Nop(), store, testPageLimits)
}

func seedTask(t *testing.T, store *fakeTaskStore, userID, title, category string, createdAt time.Time) models.Task {
	t.Helper()

	task := models.Task{
		ID:        fmt.Sprintf("seed-%s-%d", userID, createdAt.UnixNano()),
		UserID:    userID,
		Title:     title,
		Category:  category,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, store.Insert(context.Background(), &task))
	return task
}

func TestTaskServiceCreate(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	body := []byte(`{
		"title": "Buy milk",
		"category": "Groceries",
		"dueDate": "2030-01-02",
		"priority": 2
	}`)

	task, err := svc.Create(context.Background(), "user-a", body)
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "user-a", task.UserID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "Groceries", task.Category)
	assert.False(t, task.Completed)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, 2030, task.DueDate.Year())
	require.NotNil(t, task.Priority)
	assert.Equal(t, models.PriorityMedium, *task.Priority)

	stored, err := store.GetByID(context.Background(), "user-a", task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, stored.Title)
}

func TestTaskServiceCreateIgnoresClientIdentity(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	body := []byte(`{
		"title": "Sneaky",
		"category": "Other",
		"id": "forged-id",
		"userId": "user-b",
		"completed": true
	}`)

	task, err := svc.Create(context.Background(), "user-a", body)
	require.NoError(t, err)

	assert.NotEqual(t, "forged-id", task.ID)
	assert.Equal(t, "user-a", task.UserID)
	assert.False(t, task.Completed)
}

func TestTaskServiceCreateInvalid(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	body := []byte(`{"title": "", "category": "Work", "priority": 5}`)

	_, err := svc.Create(context.Background(), "user-a", body)
	require.Error(t, err)

	var verr *validation.Errors
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "priority")

	count, err := store.Count(context.Background(), "user-a", "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTaskServiceUpdatePartial(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	created, err := svc.Create(context.Background(), "user-a", []byte(`{
		"title": "Pay rent",
		"category": "Bills",
		"dueDate": "2030-06-01",
		"priority": 3
	}`))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "user-a", created.ID, []byte(`{"completed": true}`))
	require.NoError(t, err)

	assert.True(t, updated.Completed)
	assert.Equal(t, "Pay rent", updated.Title)
	assert.Equal(t, "Bills", updated.Category)
	require.NotNil(t, updated.DueDate)
	require.NotNil(t, updated.Priority)
	assert.Equal(t, models.PriorityHigh, *updated.Priority)
}

func TestTaskServiceUpdateClearsOptionalFields(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	created, err := svc.Create(context.Background(), "user-a", []byte(`{
		"title": "Dentist",
		"category": "Health",
		"dueDate": "2030-06-01",
		"priority": 1
	}`))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "user-a", created.ID,
		[]byte(`{"dueDate": null, "priority": null}`))
	require.NoError(t, err)

	assert.Nil(t, updated.DueDate)
	assert.Nil(t, updated.Priority)
	assert.Equal(t, "Dentist", updated.Title)
}

func TestTaskServiceUpdateEmptyPatch(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	created, err := svc.Create(context.Background(), "user-a",
		[]byte(`{"title": "Walk the dog", "category": "Personal"}`))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "user-a", created.ID, []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
}

func TestTaskServiceUpdateCrossUser(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	created, err := svc.Create(context.Background(), "user-a",
		[]byte(`{"title": "Private", "category": "Personal"}`))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "user-b", created.ID, []byte(`{"completed": true}`))
	assert.ErrorIs(t, err, ErrTaskNotFound)

	stored, err := store.GetByID(context.Background(), "user-a", created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
}

func TestTaskServiceDeleteCrossUser(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	created, err := svc.Create(context.Background(), "user-a",
		[]byte(`{"title": "Private", "category": "Personal"}`))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "user-b", created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = store.GetByID(context.Background(), "user-a", created.ID)
	assert.NoError(t, err)
}

func TestTaskServiceDeleteTwice(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	created, err := svc.Create(context.Background(), "user-a",
		[]byte(`{"title": "Once", "category": "Other"}`))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "user-a", created.ID))

	err = svc.Delete(context.Background(), "user-a", created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskServiceListPagination(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		seedTask(t, store, "user-a",
			fmt.Sprintf("Task %02d", i), "Work",
			base.Add(time.Duration(i)*time.Minute))
	}

	first, err := svc.List(context.Background(), "user-a", ListTasksParams{Page: "1", Limit: "5"})
	require.NoError(t, err)
	second, err := svc.List(context.Background(), "user-a", ListTasksParams{Page: "2", Limit: "5"})
	require.NoError(t, err)

	assert.Equal(t, 12, first.TotalTasks)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Equal(t, 2, second.CurrentPage)
	assert.Len(t, first.Tasks, 5)
	assert.Len(t, second.Tasks, 5)

	// Pages are disjoint windows of the same ordering: the first two
	// pages concatenated equal a single ten-item page.
	wide, err := svc.List(context.Background(), "user-a", ListTasksParams{Page: "1", Limit: "10"})
	require.NoError(t, err)

	var paged []string
	for _, task := range append(first.Tasks, second.Tasks...) {
		paged = append(paged, task.ID)
	}
	var combined []string
	for _, task := range wide.Tasks {
		combined = append(combined, task.ID)
	}
	assert.Equal(t, combined, paged)

	// Newest first.
	assert.Equal(t, "Task 11", first.Tasks[0].Title)
}

func TestTaskServiceListDefaults(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		seedTask(t, store, "user-a",
			fmt.Sprintf("Task %02d", i), "Work",
			base.Add(time.Duration(i)*time.Minute))
	}

	page, err := svc.List(context.Background(), "user-a", ListTasksParams{Page: "abc", Limit: "-3"})
	require.NoError(t, err)

	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Tasks, testPageLimits.DefaultLimit)
	assert.Equal(t, 7, page.TotalTasks)
	assert.Equal(t, 2, page.TotalPages)
}

func TestTaskServiceListBeyondLastPage(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	seedTask(t, store, "user-a", "Only one", "Other",
		time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	page, err := svc.List(context.Background(), "user-a", ListTasksParams{Page: "9", Limit: "5"})
	require.NoError(t, err)

	assert.Empty(t, page.Tasks)
	assert.Equal(t, 9, page.CurrentPage)
	assert.Equal(t, 1, page.TotalTasks)
	assert.Equal(t, 1, page.TotalPages)
}

func TestTaskServiceListSearch(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seedTask(t, store, "user-a", "Buy milk", "Groceries", base)
	rent := seedTask(t, store, "user-a", "Pay rent", "Bills", base.Add(time.Minute))
	seedTask(t, store, "user-b", "Electric bill", "Bills", base.Add(2*time.Minute))

	page, err := svc.List(context.Background(), "user-a", ListTasksParams{Search: "bill"})
	require.NoError(t, err)

	// Matches user A's "Bills" category case-insensitively; user B's
	// task never leaks in.
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, rent.ID, page.Tasks[0].ID)
	assert.Equal(t, 1, page.TotalTasks)

	page, err = svc.List(context.Background(), "user-a", ListTasksParams{Search: "MILK"})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Buy milk", page.Tasks[0].Title)
}

func TestTaskServiceLifecycle(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", []byte(`{
		"title": "Submit report",
		"category": "Work",
		"priority": 3
	}`))
	require.NoError(t, err)

	page, err := svc.List(ctx, "user-a", ListTasksParams{})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, created.ID, page.Tasks[0].ID)

	updated, err := svc.Update(ctx, "user-a", created.ID, []byte(`{"completed": true}`))
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	require.NoError(t, svc.Delete(ctx, "user-a", created.ID))

	_, err = svc.Update(ctx, "user-a", created.ID, []byte(`{"completed": false}`))
	assert.ErrorIs(t, err, ErrTaskNotFound)

	page, err = svc.List(ctx, "user-a", ListTasksParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)
	assert.Zero(t, page.TotalTasks)
}
