package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"task-manager/internal/models"
)

// fakeTaskStore is an in-memory TaskStore with the same scoping
// semantics as the postgres adapter.
type fakeTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{
		tasks: make(map[string]models.Task),
	}
}

func cloneTask(t models.Task) models.Task {
	out := t
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	if t.Priority != nil {
		priority := *t.Priority
		out.Priority = &priority
	}
	return out
}

func (s *fakeTaskStore) Insert(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (s *fakeTaskStore) GetByID(_ context.Context, userID, taskID string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, ErrTaskNotFound
	}
	out := cloneTask(task)
	return &out, nil
}

func (s *fakeTaskStore) Update(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[task.ID]
	if !ok || current.UserID != task.UserID {
		return ErrTaskNotFound
	}
	s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *fakeTaskStore) List(_ context.Context, userID string, filter TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.match(userID, filter.Search)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []models.Task{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *fakeTaskStore) Count(_ context.Context, userID, search string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.match(userID, search)), nil
}

func (s *fakeTaskStore) match(userID, search string) []models.Task {
	needle := strings.ToLower(search)

	var out []models.Task
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Category), needle) {
			continue
		}
		out = append(out, cloneTask(task))
	}
	return out
}
