package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"forum/internal/auth"
	"forum/internal/middleware"
	"forum/internal/models"
)

// CredentialStore looks users up by login name and by the id a token carries.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// TokenIssuer signs and verifies identity tokens.
type TokenIssuer interface {
	Issue(userID uint, username string) (string, *auth.Claims, error)
	Verify(token string) (*auth.Claims, error)
	TTL() time.Duration
}

// SessionRevoker tracks revoked tokens.
type SessionRevoker interface {
	Revoke(ctx context.Context, claims *auth.Claims) error
	RevokeUser(ctx context.Context, userID uint, at time.Time, ttl time.Duration) error
	IsRevoked(ctx context.Context, claims *auth.Claims) (bool, error)
}

type AuthService struct {
	users    CredentialStore
	hasher   auth.Hasher
	tokens   TokenIssuer
	sessions SessionRevoker
	now      func() time.Time
}

func NewAuthService(users CredentialStore, hasher auth.Hasher, tokens TokenIssuer, sessions SessionRevoker) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		now:      time.Now,
	}
}

// Login checks credentials and issues a token for the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (user *models.User, token string, err error) {
	ctx, done := instrument(ctx, "auth", "login")
	defer func() { done(err) }()

	user, err = s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", models.NewAuthenticationError(fmt.Sprintf("Cannot login: User does not exist with %s", username))
	}
	if !s.hasher.Compare(user.Password, password) {
		return nil, "", models.NewAuthenticationError("Cannot login: Invalid password")
	}
	if user.IsDeleted() {
		return nil, "", models.NewAuthenticationError("Cannot login: User has been deleted")
	}

	token, err = s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	middleware.Logger.InfoContext(ctx, "user logged in", slog.Uint64("id", uint64(user.ID)))
	return user, token, nil
}

// IssueToken signs a fresh token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token, _, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// TokenTTL is the lifetime of issued tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Authenticate verifies a token, checks it has not been revoked and that its
// user still exists and is not deleted. An unreachable revocation store does
// not reject the token; the user check always runs.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims)
	switch {
	case err != nil:
		middleware.Logger.WarnContext(ctx, "session revocation check failed", slog.String("error", err.Error()))
	case revoked:
		return nil, auth.ErrTokenRevoked
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, auth.ErrTokenInvalid
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted() {
		return nil, auth.ErrTokenRevoked
	}
	return claims, nil
}

// Logout revokes the token behind claims.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) {
	if err := s.sessions.Revoke(ctx, claims); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to revoke token", slog.String("error", err.Error()))
		return
	}
	middleware.Logger.InfoContext(ctx, "user logged out", slog.String("username", claims.Username))
}

// RevokeUser revokes every token issued to userID so far.
func (s *AuthService) RevokeUser(ctx context.Context, userID uint) {
	if err := s.sessions.RevokeUser(ctx, userID, s.now(), s.tokens.TTL()); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to revoke user sessions",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
	}
}
