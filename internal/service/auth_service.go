package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type authUserRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
}

type loginActivityRecorder interface {
	RecordLogin(ctx context.Context, studentID, loginEvent string, at time.Time) error
	LoginCount(ctx context.Context, studentID string, window time.Duration) (int, error)
	RecordWeeklyLoginSummary(ctx context.Context, studentID string, count int, at time.Time) error
}

// TokenClaims is the JWT payload. The token is only an envelope; authority
// lives in the session it references, so expiry mirrors the session TTL.
type TokenClaims struct {
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret string
	Issuer string
}

// AuthService provides login and logout use cases.
type AuthService struct {
	users     authUserRepository
	sessions  *SessionService
	activity  loginActivityRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, sessions *SessionService, activity loginActivityRecorder, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{users: users, sessions: sessions, activity: activity, validator: validate, logger: logger, config: config}
}

// Login authenticates a user, opens a session and issues the bearer token
// wrapping it. For students a login event and a refreshed weekly summary are
// recorded best-effort.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.users.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	session, err := s.sessions.Create(ctx, user.UserID, user.Role)
	if err != nil {
		return nil, err
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}

	if user.Role == models.RoleStudent && s.activity != nil {
		s.recordLoginActivity(ctx, user.UserID)
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.sessions.TTL().Seconds()),
		UserID:      user.UserID,
		Role:        user.Role,
	}, nil
}

// Logout closes the session referenced by the bearer token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// ParseToken verifies the bearer token signature and returns its claims.
// A valid signature proves nothing on its own; the session must still exist.
func (s *AuthService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid access token")
	}
	return claims, nil
}

func (s *AuthService) signToken(session *models.Session) (string, error) {
	now := time.Now().UTC()
	claims := TokenClaims{
		Role:      string(session.Role),
		SessionID: session.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessions.TTL())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *AuthService) recordLoginActivity(ctx context.Context, studentID string) {
	now := time.Now().UTC()
	if err := s.activity.RecordLogin(ctx, studentID, "", now); err != nil {
		s.logger.Warn("login event not recorded", zap.String("student_id", studentID), zap.Error(err))
		return
	}
	count, err := s.activity.LoginCount(ctx, studentID, 7*24*time.Hour)
	if err != nil {
		s.logger.Warn("weekly login count unavailable", zap.String("student_id", studentID), zap.Error(err))
		return
	}
	if err := s.activity.RecordWeeklyLoginSummary(ctx, studentID, count, now); err != nil {
		s.logger.Warn("weekly login summary not recorded", zap.String("student_id", studentID), zap.Error(err))
	}
}
