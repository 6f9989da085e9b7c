package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teamdesk/calldesk-backend/pkg/auth"
	"github.com/teamdesk/calldesk-backend/pkg/config"
	"github.com/teamdesk/calldesk-backend/pkg/db"
	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
)

type userFinder interface {
	FindByName(ctx context.Context, name string) (*models.User, error)
}

type sessionStore interface {
	Create(ctx context.Context, userName string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

// LoginInput is the credentials payload.
type LoginInput struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the minted token and the member it belongs to.
type LoginResult struct {
	Token        string `json:"token"`
	Name         string `json:"name"`
	IsAdmin      bool   `json:"is_admin"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// Service handles login/logout. Passwords are compared verbatim: the
// dashboard deliberately has no credential hashing, and a configured
// master password unlocks any account.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type service struct {
	users    userFinder
	sessions sessionStore
	jwtCfg   config.JWTConfig
	master   string
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(users userFinder, sessions sessionStore, jwtCfg config.JWTConfig, authCfg config.AuthConfig) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{
		users:    users,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		master:   authCfg.MasterPassword,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and password are required")
	}

	user, err := s.users.FindByName(ctx, name)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	if input.Password != user.Password && (s.master == "" || input.Password != s.master) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	sessionID, err := s.sessions.Create(ctx, user.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating session")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserName:     user.Name,
		IsAdmin:      user.IsAdmin,
		IsSuperAdmin: user.IsSuperAdmin,
		SessionID:    sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	return &LoginResult{
		Token:        token,
		Name:         user.Name,
		IsAdmin:      user.IsAdmin,
		IsSuperAdmin: user.IsSuperAdmin,
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoking session")
	}
	return nil
}
