package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/docvault/modules/user"
	"github.com/dmitrymomot/docvault/pkg/jwt"
	"github.com/dmitrymomot/docvault/pkg/tenant"
)

// TokenKind discriminates the three token flavors issued by the service.
// Every verification checks the kind claim so an access token can never be
// replayed as a refresh token or a verification link.
type TokenKind string

const (
	KindAccess       TokenKind = "access"
	KindRefresh      TokenKind = "refresh"
	KindVerification TokenKind = "verification"
)

// Claims is the token payload. Subject carries the user ID; the tenant name
// is the routing key the middleware resolves the database from.
type Claims struct {
	jwt.StandardClaims

	Email      string      `json:"email"`
	TenantID   string      `json:"tenant_id"`
	TenantName string      `json:"tenant_name"`
	Roles      []user.Role `json:"roles,omitempty"`
	Kind       TokenKind   `json:"type"`
}

// TokenPair is issued on successful login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenConfig holds signing configuration for issued tokens.
type TokenConfig struct {
	SigningKey      string        `env:"JWT_SIGNING_KEY,required"`
	Issuer          string        `env:"JWT_ISSUER" envDefault:"docvault"`
	AccessTTL       time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`
	RefreshTTL      time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	VerificationTTL time.Duration `env:"JWT_VERIFICATION_TTL" envDefault:"24h"`
}

// TokenService signs and verifies the kinds of tokens the auth flows use.
type TokenService struct {
	signer *jwt.Service
	cfg    TokenConfig
}

// NewTokenService creates a token service from config.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	signer, err := jwt.NewFromString(cfg.SigningKey)
	if err != nil {
		return nil, err
	}
	return &TokenService{signer: signer, cfg: cfg}, nil
}

// TTL returns the configured lifetime for a token kind.
func (s *TokenService) TTL(kind TokenKind) time.Duration {
	switch kind {
	case KindRefresh:
		return s.cfg.RefreshTTL
	case KindVerification:
		return s.cfg.VerificationTTL
	default:
		return s.cfg.AccessTTL
	}
}

// Sign issues a token of the given kind for the user within the tenant.
func (s *TokenService) Sign(u *user.User, t *tenant.Tenant, kind TokenKind) (string, error) {
	now := time.Now()
	return s.signer.Generate(Claims{
		StandardClaims: jwt.StandardClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.TTL(kind)).Unix(),
		},
		Email:      u.Email,
		TenantID:   t.ID,
		TenantName: t.Name,
		Roles:      u.Roles,
		Kind:       kind,
	})
}

// Verify parses the token, validates signature and expiry, and checks that it
// carries the expected kind.
func (s *TokenService) Verify(token string, kind TokenKind) (*Claims, error) {
	var claims Claims
	if err := s.signer.Parse(token, &claims); err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrInvalidTokenKind
	}
	return &claims, nil
}

// IssuePair signs a fresh access/refresh pair for the user.
func (s *TokenService) IssuePair(u *user.User, t *tenant.Tenant) (*TokenPair, error) {
	access, err := s.Sign(u, t, KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Sign(u, t, KindRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
