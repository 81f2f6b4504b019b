package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"task-manager/internal/models"
	"task-manager/internal/validation"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	store  TaskStore
	limits validation.PageLimits
}

func NewTaskService(
	logger zerolog.Logger,
	store TaskStore,
	limits validation.PageLimits,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		store:  store,
		limits: limits,
	}
}

func (s *taskServiceImpl) List(ctx context.Context, userID string, params ListTasksParams) (*TaskPage, error) {
	page, limit := validation.NormalizePage(params.Page, params.Limit, s.limits)
	search := strings.TrimSpace(params.Search)

	total, err := s.store.Count(ctx, userID, search)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count tasks")
		return nil, err
	}

	tasks, err := s.store.List(ctx, userID, TaskFilter{
		Search: search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int("total", total).
		Str("user_id", userID).
		Msg("listed tasks")

	// The requested page is echoed back even when it lies past the
	// last one; the client sees an empty page, not an error.
	return &TaskPage{
		Tasks:       tasks,
		TotalTasks:  total,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
	}, nil
}

func (s *taskServiceImpl) Create(ctx context.Context, userID string, candidate []byte) (*models.Task, error) {
	data, err := validation.ValidateCreate(candidate, time.Now())
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("invalid task candidate")
		return nil, err
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:        taskUUID.String(),
		UserID:    userID,
		Title:     data.Title,
		Category:  data.Category,
		DueDate:   data.DueDate,
		Priority:  data.Priority,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.store.Insert(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", userID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, userID, taskID string, candidate []byte) (*models.Task, error) {
	patch, err := validation.ValidatePartial(candidate)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Msg("invalid task patch")
		return nil, err
	}

	task, err := s.store.GetByID(ctx, userID, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("failed to select task")
		return nil, err
	}

	if patch.IsEmpty() {
		s.logger.Warn().
			Str("task_id", taskID).
			Msg("no fields to update")
		return task, nil
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.DueDateSet {
		task.DueDate = patch.DueDate
	}
	if patch.PrioritySet {
		task.Priority = patch.Priority
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	task.UpdatedAt = time.Now()

	err = s.store.Update(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID string) error {
	err := s.store.Delete(ctx, userID, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}
