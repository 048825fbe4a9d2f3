package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

// SessionRepository abstracts session persistence. The store's TTL is the
// only expiry mechanism; Get on an expired session returns
// ErrSessionNotFound.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Refresh(ctx context.Context, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionService manages short-lived login sessions. Validation never slides
// the TTL; Refresh resets it to a full window. Callers that want
// per-interaction renewal validate first, then refresh.
type SessionService struct {
	repo   SessionRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo SessionRepository, ttl time.Duration, logger *zap.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, ttl: ttl, logger: logger}
}

// TTL returns the configured session window.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create opens a new session with a fresh opaque id.
func (s *SessionService) Create(ctx context.Context, userID string, role models.Role) (*models.Session, error) {
	session := &models.Session{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Role:      role,
	}
	if err := s.repo.Create(ctx, session, s.ttl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// Validate returns the session when it still exists. It does not touch the
// TTL.
func (s *SessionService) Validate(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, appErrors.ErrSessionNotFound) {
			return nil, appErrors.ErrSessionNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "session store unavailable")
	}
	return session, nil
}

// Refresh resets the session TTL to a full window. A refresh on a session
// that vanished between validate and refresh is logged and ignored.
func (s *SessionService) Refresh(ctx context.Context, sessionID string) {
	if err := s.repo.Refresh(ctx, sessionID, s.ttl); err != nil {
		s.logger.Warn("session refresh failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Delete closes the session.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}
