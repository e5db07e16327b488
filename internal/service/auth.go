package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"schoolhub/internal/auth"
	"schoolhub/internal/crypto"
	"schoolhub/internal/model"
	"schoolhub/internal/repository"
)

var (
	// ErrInvalidCredentials is the single generic login failure. Unknown
	// username and wrong password are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// UserDirectory is the slice of the store the auth service depends on.
type UserDirectory interface {
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
	SetLastLogin(ctx context.Context, id string, at time.Time) error
	InsertLogout(ctx context.Context, userID string) (string, error)
}

type Auth struct {
	dir      UserDirectory
	secret   string
	issuer   string
	tokenTTL time.Duration
	denylist *redis.Client
	log      *slog.Logger
}

// NewAuth wires the credential hasher, token issuer, and user directory.
// The redis client is optional; without it logout is audit-only and tokens
// stay valid until expiry.
func NewAuth(dir UserDirectory, secret, issuer string, tokenTTL time.Duration, denylist *redis.Client, log *slog.Logger) *Auth {
	return &Auth{
		dir:      dir,
		secret:   secret,
		issuer:   issuer,
		tokenTTL: tokenTTL,
		denylist: denylist,
		log:      log,
	}
}

// Login validates the credentials and mints an access token embedding the
// user's id and role.
func (a *Auth) Login(ctx context.Context, username, password string) (string, model.User, error) {
	user, err := a.dir.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", model.User{}, ErrInvalidCredentials
		}
		return "", model.User{}, err
	}
	if err := crypto.CheckPassword(user.PasswordHash, password); err != nil {
		return "", model.User{}, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(a.secret, a.issuer, a.tokenTTL, user.ID.Hex(), string(user.Role))
	if err != nil {
		return "", model.User{}, err
	}

	now := time.Now().UTC()
	if err := a.dir.SetLastLogin(ctx, user.ID.Hex(), now); err != nil {
		a.log.Warn("last-login refresh failed", "user_id", user.ID.Hex(), "error", err)
	} else {
		user.LastLogin = &now
	}

	return token, user, nil
}

// ResolveBearer verifies the token and resolves its subject through the
// directory. The directory is the source of truth: a structurally valid
// token whose subject no longer exists is unauthenticated.
func (a *Auth) ResolveBearer(ctx context.Context, token string) (model.User, error) {
	claims, err := auth.ParseToken(a.secret, token)
	if err != nil {
		return model.User{}, ErrUnauthenticated
	}

	if a.denylist != nil && claims.ID != "" {
		denied, err := a.denylist.Exists(ctx, denylistKey(claims.ID)).Result()
		if err != nil {
			return model.User{}, err
		}
		if denied > 0 {
			return model.User{}, ErrUnauthenticated
		}
	}

	user, err := a.dir.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalid) {
			return model.User{}, ErrUnauthenticated
		}
		return model.User{}, err
	}
	return user, nil
}

// Logout appends the audit record. When a denylist is configured the token's
// jti is denied for its remaining lifetime; otherwise the token stays valid
// until it expires.
func (a *Auth) Logout(ctx context.Context, user model.User, token string) (string, error) {
	logoutID, err := a.dir.InsertLogout(ctx, user.ID.Hex())
	if err != nil {
		return "", err
	}

	if a.denylist != nil {
		claims, err := auth.ParseToken(a.secret, token)
		if err == nil && claims.ID != "" && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if ttl > 0 {
				if err := a.denylist.Set(ctx, denylistKey(claims.ID), "1", ttl).Err(); err != nil {
					a.log.Warn("token denylist write failed", "user_id", user.ID.Hex(), "error", err)
				}
			}
		}
	}

	return logoutID, nil
}

// Authorize reports whether the user holds one of the allowed roles.
func Authorize(user model.User, allowed ...model.Role) bool {
	for _, role := range allowed {
		if user.Role == role {
			return true
		}
	}
	return false
}

func denylistKey(jti string) string {
	return fmt.Sprintf("token_denylist:%s", jti)
}
