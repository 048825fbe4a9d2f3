package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/university-portal-api/internal/models"
	appErrors "github.com/noah-isme/university-portal-api/pkg/errors"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func newAuthFixture(t *testing.T, role models.Role) (*AuthService, *fakeSessionRepo, *fakeActivityRecorder) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[string]*models.User{
		"U1": {UID: "uid-1", UserID: "U1", PasswordHash: string(hash), Role: role},
	}}
	sessionRepo := newFakeSessionRepo()
	sessions := NewSessionService(sessionRepo, 10*time.Minute, zap.NewNop())
	activity := newFakeActivityRecorder()
	svc := NewAuthService(users, sessions, activity, validator.New(), zap.NewNop(), AuthConfig{
		Secret: "test-secret",
		Issuer: "portal-test",
	})
	return svc, sessionRepo, activity
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, sessionRepo, _ := newAuthFixture(t, models.RoleInstructor)

	res, err := svc.Login(context.Background(), models.LoginRequest{UserID: "U1", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "U1", res.UserID)
	assert.Equal(t, models.RoleInstructor, res.Role)
	assert.Equal(t, int64(600), res.ExpiresIn)

	claims, err := svc.ParseToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleInstructor), claims.Role)
	assert.Contains(t, sessionRepo.sessions, claims.SessionID, "token must reference a live session")
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, sessionRepo, _ := newAuthFixture(t, models.RoleStudent)

	_, err := svc.Login(context.Background(), models.LoginRequest{UserID: "U1", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	assert.Empty(t, sessionRepo.sessions)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t, models.RoleStudent)

	_, err := svc.Login(context.Background(), models.LoginRequest{UserID: "nobody", Password: "secret-pass"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceStudentLoginRecordsActivity(t *testing.T) {
	svc, _, activity := newAuthFixture(t, models.RoleStudent)
	activity.loginCount = 3

	_, err := svc.Login(context.Background(), models.LoginRequest{UserID: "U1", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, 1, activity.logins)
	assert.Equal(t, 1, activity.weeklySummary)
	assert.Equal(t, 3, activity.weeklyCount)
}

func TestAuthServiceNonStudentLoginSkipsActivity(t *testing.T) {
	svc, _, activity := newAuthFixture(t, models.RoleDean)

	_, err := svc.Login(context.Background(), models.LoginRequest{UserID: "U1", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Zero(t, activity.logins)
}

func TestAuthServiceLoginSurvivesEventStoreOutage(t *testing.T) {
	svc, _, activity := newAuthFixture(t, models.RoleStudent)
	activity.recordLoginErr = assert.AnError

	_, err := svc.Login(context.Background(), models.LoginRequest{UserID: "U1", Password: "secret-pass"})
	assert.NoError(t, err, "a down event store must not block login")
}

func TestAuthServiceLogoutClosesSession(t *testing.T) {
	svc, sessionRepo, _ := newAuthFixture(t, models.RoleStudent)

	res, err := svc.Login(context.Background(), models.LoginRequest{UserID: "U1", Password: "secret-pass"})
	require.NoError(t, err)
	claims, err := svc.ParseToken(res.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.SessionID))
	assert.NotContains(t, sessionRepo.sessions, claims.SessionID)
}

func TestAuthServiceParseTokenRejectsForgedSignature(t *testing.T) {
	svc, _, _ := newAuthFixture(t, models.RoleStudent)
	other := NewAuthService(&fakeUserRepo{users: map[string]*models.User{}},
		NewSessionService(newFakeSessionRepo(), 10*time.Minute, zap.NewNop()),
		nil, validator.New(), zap.NewNop(), AuthConfig{Secret: "other-secret", Issuer: "portal-test"})

	res, err := other.signToken(&models.Session{SessionID: "sid", UserID: "U1", Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = svc.ParseToken(res)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
