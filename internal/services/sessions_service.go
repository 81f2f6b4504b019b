package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"task-manager/internal/models"
)

type sessionServiceImpl struct {
	logger zerolog.Logger
	store  SessionStore
}

func NewSessionService(
	logger zerolog.Logger,
	store SessionStore,
) SessionService {
	return &sessionServiceImpl{
		logger: logger,
		store:  store,
	}
}

func (s *sessionServiceImpl) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			s.logger.Error().
				Str("session_id", sessionID).
				Msg("session not found")
			return nil, ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to select session by id")
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("selected session by id")

	return session, nil
}
