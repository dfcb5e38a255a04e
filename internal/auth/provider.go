package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ProviderProfile is what an identity provider vouches for.
type ProviderProfile struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// IdentityProvider exchanges a provider access token for a verified profile.
type IdentityProvider interface {
	Name() string
	FetchProfile(ctx context.Context, accessToken string) (*ProviderProfile, error)
}

// ErrProviderRejected means the provider refused the access token.
var ErrProviderRejected = errors.New("identity provider rejected the token")

// OIDCProvider calls an OpenID Connect userinfo endpoint.
type OIDCProvider struct {
	name        string
	userInfoURL string
	timeout     time.Duration
}

// NewOIDCProvider creates a provider named name backed by userInfoURL.
func NewOIDCProvider(name, userInfoURL string) *OIDCProvider {
	return &OIDCProvider{name: name, userInfoURL: userInfoURL, timeout: 5 * time.Second}
}

func (p *OIDCProvider) Name() string { return p.name }

func (p *OIDCProvider) FetchProfile(ctx context.Context, accessToken string) (*ProviderProfile, error) {
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	agent := fiber.Get(p.userInfoURL)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+accessToken)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("userinfo request: %w", errors.Join(errs...))
	}
	switch {
	case status == fiber.StatusUnauthorized || status == fiber.StatusForbidden:
		return nil, ErrProviderRejected
	case status != fiber.StatusOK:
		return nil, fmt.Errorf("userinfo request: unexpected status %d", status)
	}

	var profile ProviderProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	if profile.Email == "" || !profile.EmailVerified {
		return nil, ErrProviderRejected
	}
	return &profile, nil
}
