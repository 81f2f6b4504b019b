package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"task-manager/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrTaskNotFound         = errors.New("task not found")
)

// TaskStore is the persistence port for tasks. Every read, update and
// delete is scoped by the owning user: a task id that exists but belongs
// to someone else behaves exactly like a missing row (ErrTaskNotFound).
type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, userID, taskID string) (*models.Task, error)

	// Update writes the full row scoped by (task.ID, task.UserID) and
	// returns ErrTaskNotFound when no row matched.
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, userID, taskID string) error

	List(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error)

	// Count applies the same search filter as List, independent of
	// the page window.
	Count(ctx context.Context, userID, search string) (int, error)
}

// TaskFilter narrows a task listing. Search is a case-insensitive
// substring match against title or category; empty means no filter.
type TaskFilter struct {
	Search string
	Limit  int
	Offset int
}

type UserStore interface {
	// Insert returns ErrUserAlreadyExists when the email is taken.
	Insert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, userID, name string) (*models.User, error)
}

type SessionStore interface {
	GetByID(ctx context.Context, sessionID string) (*models.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error)

	// Replace atomically drops every session of the owning user and
	// inserts the given one, enforcing a single active session.
	Replace(ctx context.Context, session *models.Session) error
	UpdateTokens(ctx context.Context, session *models.Session) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// TaskService exposes every task operation reachable from the HTTP
// boundary, always scoped to the user id resolved upstream. Create and
// Update receive the raw request body and run it through the task
// validation schema; a failed run surfaces as *validation.Errors.
type TaskService interface {
	// List returns one page of the user's tasks ordered by creation
	// time descending. Raw page/limit values are normalized (defaults
	// on junk input, limit clamped); the search term matches title or
	// category case-insensitively. An empty page is a valid result,
	// not an error.
	List(ctx context.Context, userID string, params ListTasksParams) (*TaskPage, error)

	// Create persists a validated candidate with a server-assigned id,
	// completed=false and the caller's user id. Client-supplied ids or
	// user ids in the candidate are ignored.
	Create(ctx context.Context, userID string, candidate []byte) (*models.Task, error)

	// Update applies only the fields present in the candidate; explicit
	// nulls clear dueDate/priority, absent fields stay untouched.
	// Returns ErrTaskNotFound when the task is missing or owned by
	// another user.
	Update(ctx context.Context, userID, taskID string, candidate []byte) (*models.Task, error)

	// Delete removes the task scoped by (taskID, userID) and returns
	// ErrTaskNotFound when nothing matched.
	Delete(ctx context.Context, userID, taskID string) error
}

type ListTasksParams struct {
	Page   string
	Limit  string
	Search string
}

type TaskPage struct {
	Tasks       []models.Task
	TotalTasks  int
	CurrentPage int
	TotalPages  int
}

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It replaces all sessions with the same user ID with a new
	// session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given name, email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

// UserService backs the profile endpoints.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateName(ctx context.Context, userID, name string) (*models.User, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}
