package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore records revoked tokens in Redis. A store without a client
// revokes nothing.
type SessionStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewSessionStore creates a SessionStore. rdb may be nil.
func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb, now: time.Now}
}

func revokedTokenKey(jti string) string {
	return "forum:revoked:jti:" + jti
}

func revokedUserKey(userID uint) string {
	return fmt.Sprintf("forum:revoked:user:%d", userID)
}

// Revoke marks a single token as revoked until it expires.
func (s *SessionStore) Revoke(ctx context.Context, claims *Claims) error {
	if s.rdb == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(s.now()); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.rdb.Set(ctx, revokedTokenKey(claims.ID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeUser revokes every token of userID issued at or before at. The
// marker lives for ttl, which should be at least the token lifetime.
func (s *SessionStore) RevokeUser(ctx context.Context, userID uint, at time.Time, ttl time.Duration) error {
	if s.rdb == nil {
		return nil
	}
	if err := s.rdb.Set(ctx, revokedUserKey(userID), at.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token behind claims has been revoked.
func (s *SessionStore) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if s.rdb == nil || claims == nil {
		return false, nil
	}

	if claims.ID != "" {
		n, err := s.rdb.Exists(ctx, revokedTokenKey(claims.ID)).Result()
		if err != nil {
			return false, fmt.Errorf("check revoked token: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}

	userID, err := claims.UserID()
	if err != nil {
		return false, err
	}
	raw, err := s.rdb.Get(ctx, revokedUserKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked user: %w", err)
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation marker: %w", err)
	}
	if claims.IssuedAt == nil {
		return true, nil
	}
	return claims.IssuedAt.Unix() <= cutoff, nil
}
