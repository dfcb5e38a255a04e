package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"snapshare/internal/auth"
	"snapshare/internal/models"
	"snapshare/internal/repository"
	"snapshare/internal/validation"
)

// Credential is one of PasswordCredential or ProviderCredential.
type Credential interface {
	credential()
}

// PasswordCredential signs in with email and password.
type PasswordCredential struct {
	Email    string
	Password string
}

// ProviderCredential signs in with an access token issued by a delegated
// identity provider.
type ProviderCredential struct {
	Provider    string
	AccessToken string
}

func (PasswordCredential) credential() {}
func (ProviderCredential) credential() {}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Session is a signed token for a user.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type AuthService struct {
	users     repository.UserRepository
	issuer    *auth.TokenIssuer
	providers map[string]auth.IdentityProvider
	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash string
}

func NewAuthService(users repository.UserRepository, issuer *auth.TokenIssuer, providers ...auth.IdentityProvider) *AuthService {
	s := &AuthService{
		users:     users,
		issuer:    issuer,
		providers: make(map[string]auth.IdentityProvider, len(providers)),
	}
	for _, p := range providers {
		s.providers[strings.ToLower(p.Name())] = p
	}
	if h, err := auth.HashPassword("snapshare-timing-guard"); err == nil {
		s.dummyHash = h
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := models.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, models.NewValidationError("Email, password, and name are required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Email: email, Password: hashed, Name: name}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Authenticate resolves either credential variant to a user and issues a
// session. Callers never learn which variant produced the identity.
func (s *AuthService) Authenticate(ctx context.Context, cred Credential) (*Session, error) {
	var (
		user *models.User
		err  error
	)
	switch c := cred.(type) {
	case PasswordCredential:
		user, err = s.authenticatePassword(ctx, c)
	case ProviderCredential:
		user, err = s.authenticateProvider(ctx, c)
	default:
		err = models.NewValidationError("Unsupported credential")
	}
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) authenticatePassword(ctx context.Context, c PasswordCredential) (*models.User, error) {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, c.Email)
	if err != nil {
		return nil, err
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.Password
	}
	ok, err := auth.CheckPassword(hash, c.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil || !ok {
		return nil, models.NewUnauthenticatedError("Invalid credentials")
	}
	return user, nil
}

func (s *AuthService) authenticateProvider(ctx context.Context, c ProviderCredential) (*models.User, error) {
	provider, ok := s.providers[strings.ToLower(strings.TrimSpace(c.Provider))]
	if !ok {
		return nil, models.NewValidationError("Unsupported identity provider")
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		return nil, models.NewValidationError("Access token is required")
	}

	profile, err := provider.FetchProfile(ctx, c.AccessToken)
	if err != nil {
		if errors.Is(err, auth.ErrProviderRejected) {
			return nil, models.NewUnauthenticatedError("Invalid provider token")
		}
		return nil, models.NewUpstreamError("Identity provider unavailable", err)
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name, _, _ = strings.Cut(profile.Email, "@")
	}
	return s.users.UpsertByEmail(ctx, &models.User{
		Email: profile.Email,
		Name:  name,
		Image: profile.Picture,
	})
}

// Resolve verifies a session token.
func (s *AuthService) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	return s.issuer.Resolve(ctx, token)
}

// Me returns the stored account behind an identity.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, expiresAt, err := s.issuer.Issue(auth.IdentityOf(user))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
