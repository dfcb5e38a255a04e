// Package auth issues and verifies session tokens and talks to external
// identity providers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"snapshare/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "snapshare-api"
	tokenAudience = "snapshare-client"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the resolved caller. Every credential variant ends here.
type Identity struct {
	UserID uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// IdentityOf projects a stored user to an Identity.
func IdentityOf(u *models.User) Identity {
	return Identity{UserID: u.ID, Name: u.Name, Avatar: u.Image}
}

type sessionClaims struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer whose tokens live for ttl.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a session token for id.
func (t *TokenIssuer) Issue(id Identity) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	claims := sessionClaims{
		Name:   id.Name,
		Avatar: id.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Resolve verifies a token and returns the identity it carries.
func (t *TokenIssuer) Resolve(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: uint(userID), Name: claims.Name, Avatar: claims.Avatar}, nil
}
