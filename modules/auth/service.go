package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/docvault/modules/user"
	"github.com/dmitrymomot/docvault/pkg/tenant"
)

// lockoutDuration is how long an account stays locked after too many failed
// login attempts.
const lockoutDuration = 15 * time.Minute

// VerificationMailer delivers the email-verification message. Delivery
// failure is logged, not retried, and never rolls back the user row that was
// already persisted.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
}

// RegisterRequest carries the self-registration input.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Service implements registration, login, email verification, and token
// refresh. Login and registration are unauthenticated, so the tenant is
// resolved from the email's domain via the registry before any user store
// access.
type Service struct {
	users    user.Repository
	registry tenant.Registry
	tokens   *TokenService
	mailer   VerificationMailer
	log      *slog.Logger
}

// NewService creates an auth service.
func NewService(users user.Repository, registry tenant.Registry, tokens *TokenService, mailer VerificationMailer, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		registry: registry,
		tokens:   tokens,
		mailer:   mailer,
		log:      log,
	}
}

// Login authenticates a user by email and password and issues a token pair.
//
// Every failure except an active lockout returns ErrInvalidCredentials: a
// missing tenant domain, a missing user, a wrong password, and a non-active
// account are indistinguishable to the caller. A non-active account is
// rejected before the password check, so it never accumulates failed
// attempts. A wrong password increments the failure counter and, at the
// threshold, starts a lockout window; while locked even the correct password
// is rejected.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	t, ctx, err := s.tenantForEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if u.IsLocked() {
		return nil, ErrAccountLocked
	}

	if u.Status != user.StatusActive {
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(u.PasswordHash, password) {
		s.recordFailedAttempt(ctx, u)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	if _, err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user logged in", slog.String("user_id", u.ID))
	return s.tokens.IssuePair(u, t)
}

// recordFailedAttempt increments the failure counter and starts the lockout
// window once the threshold is reached. A save failure here is logged and
// swallowed: the caller still gets the uniform credentials error.
func (s *Service) recordFailedAttempt(ctx context.Context, u *user.User) {
	u.FailedLoginAttempts++
	if u.ShouldLock() {
		until := time.Now().Add(lockoutDuration)
		u.LockedUntil = &until
		s.log.WarnContext(ctx, "account locked after failed logins",
			slog.String("user_id", u.ID),
			slog.Int("attempts", u.FailedLoginAttempts))
	}
	if _, err := s.users.Save(ctx, u); err != nil {
		s.log.ErrorContext(ctx, "failed to persist login failure", slog.Any("error", err))
	}
}

// Register creates a PENDING user in the tenant owning the email's domain
// and sends a verification email. The user row and the email send are two
// separate steps: a delivery failure leaves the row in place, and the user
// can request a resend.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	t, ctx, err := s.tenantForEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrUnknownEmailDomain
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:                uuid.NewString(),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		TenantName:        t.Name,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		PasswordHash:      hash,
		Status:            user.StatusPending,
		Roles:             []user.Role{user.RoleUser},
		CreatedAt:         now,
		CreatedBy:         req.Email,
		PasswordChangedAt: now,
	}

	if err := s.stampVerificationToken(u, t); err != nil {
		return nil, err
	}

	if _, err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered",
		slog.String("user_id", u.ID),
		slog.String("tenant", t.Name))

	s.sendVerification(ctx, u)
	return u, nil
}

// VerifyEmail activates a PENDING user with an unexpired, unused verification
// token. The stored token is cleared on success, making it single-use.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.tokens.Verify(token, KindVerification)
	if err != nil {
		return nil, ErrInvalidVerificationToken
	}

	t, err := s.registry.FindByName(ctx, claims.TenantName)
	if err != nil {
		return nil, err
	}
	if t == nil || t.Deleted {
		return nil, ErrInvalidVerificationToken
	}
	ctx = tenant.WithTenant(ctx, t)

	u, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidVerificationToken
	}
	if u.VerificationExpires == nil || u.VerificationExpires.Before(time.Now()) {
		return nil, ErrInvalidVerificationToken
	}

	u.Status = user.StatusActive
	u.EmailVerified = true
	u.VerificationToken = ""
	u.VerificationExpires = nil

	if _, err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "email verified", slog.String("user_id", u.ID))
	return u, nil
}

// ResendVerification issues a fresh verification token for a PENDING user.
// It reports success regardless of whether the email is known, so it cannot
// be used to probe for accounts.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	t, ctx, err := s.tenantForEmail(ctx, email)
	if err != nil {
		return err
	}
	if t == nil {
		return nil
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil || u.Status != user.StatusPending {
		return nil
	}

	if err := s.stampVerificationToken(u, t); err != nil {
		return err
	}
	if _, err := s.users.Save(ctx, u); err != nil {
		return err
	}

	s.sendVerification(ctx, u)
	return nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The same
// tenant and user checks as the middleware apply: a deleted tenant, a
// missing user, a tenant mismatch, or a non-active account all invalidate
// the refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, KindRefresh)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	t, err := s.registry.FindByName(ctx, claims.TenantName)
	if err != nil {
		return nil, err
	}
	if t == nil || t.Deleted {
		return nil, ErrInvalidCredentials
	}
	ctx = tenant.WithTenant(ctx, t)

	u, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if u == nil || u.TenantName != claims.TenantName || u.Status != user.StatusActive || u.IsLocked() {
		return nil, ErrInvalidCredentials
	}

	return s.tokens.IssuePair(u, t)
}

// CurrentUser returns the authenticated principal's account. The middleware
// has already bound the tenant, so the lookup routes to the right database.
func (s *Service) CurrentUser(ctx context.Context) (*user.User, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	return u, nil
}

// ChangePassword replaces the principal's password after verifying the
// current one. The new password goes through the same strength check as
// registration, and a pending forced change is cleared.
func (s *Service) ChangePassword(ctx context.Context, current, updated string) error {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUnauthorized
	}

	if !VerifyPassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(updated)
	if err != nil {
		return err
	}

	u.PasswordHash = hash
	u.PasswordChangedAt = time.Now()
	u.MustChangePassword = false
	u.UpdatedBy = p.Email
	if _, err := s.users.Save(ctx, u); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "password changed", slog.String("user_id", u.ID))
	return nil
}

// DeactivateUser flips an account to INACTIVE, cutting off future logins and
// token refreshes. Outstanding access tokens die at the middleware's status
// check. Deactivating an already inactive account is a no-op save.
func (s *Service) DeactivateUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	u.Status = user.StatusInactive
	if p, ok := PrincipalFromContext(ctx); ok {
		u.UpdatedBy = p.Email
	}
	if _, err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user deactivated", slog.String("user_id", u.ID))
	return u, nil
}

// tenantForEmail resolves the active tenant owning the email's domain and
// returns a context with that tenant bound. A nil tenant with a nil error
// means no active binding exists.
func (s *Service) tenantForEmail(ctx context.Context, email string) (*tenant.Tenant, context.Context, error) {
	domain, ok := emailDomain(email)
	if !ok {
		return nil, ctx, nil
	}

	binding, err := s.registry.FindActiveDomain(ctx, domain)
	if err != nil {
		return nil, ctx, err
	}
	if binding == nil {
		return nil, ctx, nil
	}

	t, err := s.registry.FindByName(ctx, binding.TenantName)
	if err != nil {
		return nil, ctx, err
	}
	if t == nil || t.Deleted {
		return nil, ctx, nil
	}

	return t, tenant.WithTenant(ctx, t), nil
}

// stampVerificationToken signs a fresh verification token and stores it on
// the user with its expiry.
func (s *Service) stampVerificationToken(u *user.User, t *tenant.Tenant) error {
	token, err := s.tokens.Sign(u, t, KindVerification)
	if err != nil {
		return err
	}
	expiry := time.Now().Add(s.tokens.TTL(KindVerification))
	u.VerificationToken = token
	u.VerificationExpires = &expiry
	return nil
}

func (s *Service) sendVerification(ctx context.Context, u *user.User) {
	if err := s.mailer.SendVerificationEmail(ctx, u.Email, u.VerificationToken); err != nil {
		s.log.ErrorContext(ctx, "failed to send verification email",
			slog.String("user_id", u.ID),
			slog.Any("error", err))
	}
}

func emailDomain(email string) (string, bool) {
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return "", false
	}
	return strings.ToLower(domain), true
}
