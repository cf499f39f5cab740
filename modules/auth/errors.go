package auth

import "errors"

var (
	// ErrInvalidCredentials is the uniform login failure. Missing user, wrong
	// password, and non-active account all surface as this error so callers
	// cannot probe which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked is returned while a lockout window is active. The text
	// differs from ErrInvalidCredentials but still does not confirm that the
	// credentials were otherwise correct.
	ErrAccountLocked = errors.New("account is temporarily locked, try again later")

	// ErrUserAlreadyExists is returned on registration with an email that is
	// already taken within the tenant.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUnknownEmailDomain is returned on registration when no active tenant
	// domain binding matches the email's domain.
	ErrUnknownEmailDomain = errors.New("no tenant registered for email domain")

	// ErrInvalidVerificationToken covers unknown, already-used, and expired
	// verification tokens.
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")

	// ErrInvalidTokenKind is returned when a token of one kind is presented
	// where another kind is required.
	ErrInvalidTokenKind = errors.New("unexpected token kind")

	// ErrUnauthorized is the generic request-authentication failure used by
	// the middleware and the principal-bound operations.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserNotFound is returned by admin user management when the target
	// account does not exist in the tenant.
	ErrUserNotFound = errors.New("user not found")
)
