package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"task-manager/internal/models"
	"task-manager/internal/services"
)

// TaskStore maps task operations onto the tasks table. Every read,
// update and delete includes user_id in the WHERE clause; the caller's
// user id is never taken from client input.
type TaskStore struct {
	logger zerolog.Logger
	pool   *pgxpool.Pool
}

func NewTaskStore(logger zerolog.Logger, pool *pgxpool.Pool) *TaskStore {
	return &TaskStore{
		logger: logger,
		pool:   pool,
	}
}

func (s *TaskStore) Insert(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   category,
                   due_date,
                   priority,
                   completed,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := s.pool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Category,
		task.DueDate,
		task.Priority,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to insert task")
		return err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task := &models.Task{
		ID:     taskID,
		UserID: userID,
	}

	const selectTaskQuery = `
SELECT title,
       category,
       due_date,
       priority,
       completed,
       created_at,
       updated_at
FROM tasks
WHERE id = $1 AND user_id = $2
`
	err := s.pool.QueryRow(
		ctx,
		selectTaskQuery,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Category,
		&task.DueDate,
		&task.Priority,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    category = $2,
    due_date = $3,
    priority = $4,
    completed = $5,
    updated_at = $6
WHERE id = $7 AND user_id = $8
`
	tag, err := s.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Category,
		task.DueDate,
		task.Priority,
		task.Completed,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return services.ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, userID, taskID string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return services.ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}

func (s *TaskStore) List(ctx context.Context, userID string, filter services.TaskFilter) ([]models.Task, error) {
	const selectTasksQuery = `
SELECT id,
       title,
       category,
       due_date,
       priority,
       completed,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1 AND
      (title ILIKE $2 ESCAPE '\' OR category ILIKE $2 ESCAPE '\')
ORDER BY created_at DESC
LIMIT $3 OFFSET $4
`
	rows, err := s.pool.Query(
		ctx,
		selectTasksQuery,
		userID,
		likePattern(filter.Search),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, filter.Limit)
	for rows.Next() {
		task := models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Category,
			&task.DueDate,
			&task.Priority,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return tasks, nil
}

func (s *TaskStore) Count(ctx context.Context, userID, search string) (int, error) {
	const countTasksQuery = `
SELECT count(*)
FROM tasks
WHERE user_id = $1 AND
      (title ILIKE $2 ESCAPE '\' OR category ILIKE $2 ESCAPE '\')
`
	var total int
	err := s.pool.QueryRow(
		ctx,
		countTasksQuery,
		userID,
		likePattern(search),
	).Scan(&total)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count tasks")
		return 0, err
	}
	return total, nil
}

// ListDue returns every incomplete task across all users whose due date
// has passed. Used by the due-task notifier, which treats the store as
// the single source of truth.
func (s *TaskStore) ListDue(ctx context.Context, before time.Time) ([]models.Task, error) {
	const selectDueTasksQuery = `
SELECT id,
       user_id,
       title,
       category,
       due_date,
       priority,
       completed,
       created_at,
       updated_at
FROM tasks
WHERE due_date IS NOT NULL AND
      due_date <= $1 AND
      NOT completed
ORDER BY due_date
`
	rows, err := s.pool.Query(ctx, selectDueTasksQuery, before)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select due tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		err = rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Category,
			&task.DueDate,
			&task.Priority,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan due task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return tasks, nil
}

// likePattern wraps a search term for a substring ILIKE match. An empty
// term produces %% which matches every row, so the same query serves
// filtered and unfiltered listings.
func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(search) + "%"
}
