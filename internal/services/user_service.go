package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"task-manager/internal/models"
	"task-manager/internal/validation"
)

const userNameMaxLength = 100

type userServiceImpl struct {
	logger zerolog.Logger
	store  UserStore
}

func NewUserService(
	logger zerolog.Logger,
	store UserStore,
) UserService {
	return &userServiceImpl{
		logger: logger,
		store:  store,
	}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user by id")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("selected user by id")

	return user, nil
}

func (s *userServiceImpl) UpdateName(ctx context.Context, userID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > userNameMaxLength {
		return nil, &validation.Errors{Fields: []validation.FieldError{
			{Field: "name", Message: "name must be between 1 and 100 characters"},
		}}
	}

	user, err := s.store.UpdateName(ctx, userID, name)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to update user name")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Msg("updated user name")
	return user, nil
}
