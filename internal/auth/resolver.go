// Package auth resolves request credentials into actors. Two schemes are
// supported: HTTP Basic against the stored bcrypt password hashes, and
// Bearer JWTs issued by the login endpoint.
package auth

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/orderdesk/api/internal/domain/actor"
	"github.com/orderdesk/api/internal/domain/user"
)

var _ actor.Resolver = (*Resolver)(nil)

// Resolver authenticates credentials against the user repository.
type Resolver struct {
	users    user.Repository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewResolver creates a Resolver. secret signs and verifies the HS256
// bearer tokens; tokenTTL bounds their validity.
func NewResolver(users user.Repository, secret []byte, tokenTTL time.Duration) *Resolver {
	return &Resolver{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// tokenClaims is the JWT payload: subject carries the user id, role the
// principal role at issue time.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Resolve turns an Authorization header value into an Actor. Missing,
// malformed, and unverifiable credentials all collapse into
// actor.ErrAuthenticationRequired; callers learn nothing about which part
// failed.
func (r *Resolver) Resolve(ctx context.Context, credential string) (actor.Actor, error) {
	switch {
	case credential == "":
		return actor.Actor{}, actor.ErrAuthenticationRequired
	case strings.HasPrefix(credential, "Basic "):
		return r.resolveBasic(ctx, strings.TrimPrefix(credential, "Basic "))
	case strings.HasPrefix(credential, "Bearer "):
		return r.resolveBearer(strings.TrimPrefix(credential, "Bearer "))
	default:
		return actor.Actor{}, actor.ErrAuthenticationRequired
	}
}

func (r *Resolver) resolveBasic(ctx context.Context, encoded string) (actor.Actor, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return actor.Actor{}, actor.ErrAuthenticationRequired
	}
	email, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return actor.Actor{}, actor.ErrAuthenticationRequired
	}

	u, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return actor.Actor{}, actor.ErrAuthenticationRequired
		}
		return actor.Actor{}, errors.Wrap(err, "find user")
	}
	if !u.CheckPassword(password) {
		return actor.Actor{}, actor.ErrAuthenticationRequired
	}
	return actor.Actor{ID: u.ID, Role: u.Role}, nil
}

func (r *Resolver) resolveBearer(token string) (actor.Actor, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return r.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil || !parsed.Valid {
		return actor.Actor{}, actor.ErrAuthenticationRequired
	}
	if claims.Subject == "" {
		return actor.Actor{}, actor.ErrAuthenticationRequired
	}
	return actor.Actor{ID: claims.Subject, Role: actor.Role(claims.Role)}, nil
}

// Login verifies an email/password pair and issues a signed bearer token
// for the matching user.
func (r *Resolver) Login(ctx context.Context, email, password string) (string, error) {
	u, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", actor.ErrAuthenticationRequired
		}
		return "", errors.Wrap(err, "find user")
	}
	if !u.CheckPassword(password) {
		return "", actor.ErrAuthenticationRequired
	}

	now := r.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.tokenTTL)),
		},
	})
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}
