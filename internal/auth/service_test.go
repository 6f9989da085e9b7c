package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/teamdesk/calldesk-backend/pkg/auth"
	"github.com/teamdesk/calldesk-backend/pkg/config"
	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
)

type fakeFinder struct {
	users map[string]*models.User
}

func (f *fakeFinder) FindByName(_ context.Context, name string) (*models.User, error) {
	user, ok := f.users[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeSessions struct {
	created []string
	revoked []string
}

func (f *fakeSessions) Create(_ context.Context, userName string) (string, error) {
	f.created = append(f.created, userName)
	return "session-" + userName, nil
}

func (f *fakeSessions) Revoke(_ context.Context, sessionID string) error {
	f.revoked = append(f.revoked, sessionID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "calldesk", ExpirationMinutes: 30}
}

func newTestService(t *testing.T, master string) (Service, *fakeSessions) {
	t.Helper()
	finder := &fakeFinder{users: map[string]*models.User{
		"Alice": {Name: "Alice", Password: "open sesame", IsAdmin: true},
	}}
	sessions := &fakeSessions{}
	svc, err := NewService(finder, sessions, testJWTConfig(), config.AuthConfig{MasterPassword: master})
	require.NoError(t, err)
	return svc, sessions
}

func TestLoginWithOwnPassword(t *testing.T) {
	svc, sessions := newTestService(t, "")

	result, err := svc.Login(context.Background(), LoginInput{Name: " Alice ", Password: "open sesame"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", result.Name)
	assert.True(t, result.IsAdmin)
	assert.Equal(t, []string{"Alice"}, sessions.created)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", claims.UserName)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "session-Alice", claims.SessionID)
}

func TestLoginWithMasterPassword(t *testing.T) {
	svc, _ := newTestService(t, "skeleton-key")

	result, err := svc.Login(context.Background(), LoginInput{Name: "Alice", Password: "skeleton-key"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", result.Name)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, sessions := newTestService(t, "")

	_, err := svc.Login(context.Background(), LoginInput{Name: "Alice", Password: "nope"})
	require.Error(t, err)
	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Empty(t, sessions.created)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t, "")

	_, err := svc.Login(context.Background(), LoginInput{Name: "Nobody", Password: "x"})
	require.Error(t, err)
	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := newTestService(t, "")

	require.NoError(t, svc.Logout(context.Background(), "session-Alice"))
	assert.Equal(t, []string{"session-Alice"}, sessions.revoked)
}
