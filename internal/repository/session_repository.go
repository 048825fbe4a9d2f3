package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionRepository stores login sessions as Redis hashes. Expiry is the
// hash's TTL; a missing hash means the session expired or never existed.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Create writes the session hash and arms its TTL.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session, ttl time.Duration) error {
	key := sessionKey(session.SessionID)
	if err := r.client.HSet(ctx, key, map[string]interface{}{
		"user_id": session.UserID,
		"role":    string(session.Role),
	}).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis expire %s: %w", key, err)
	}
	return nil
}

// Get returns the session. A missing or expired hash yields
// ErrSessionNotFound.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	key := sessionKey(sessionID)
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, appErrors.ErrSessionNotFound
	}
	return &models.Session{
		SessionID: sessionID,
		UserID:    fields["user_id"],
		Role:      models.Role(fields["role"]),
	}, nil
}

// Refresh resets the session TTL to a full window.
func (r *SessionRepository) Refresh(ctx context.Context, sessionID string, ttl time.Duration) error {
	key := sessionKey(sessionID)
	if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis expire %s: %w", key, err)
	}
	return nil
}

// Delete removes the session.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	key := sessionKey(sessionID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
