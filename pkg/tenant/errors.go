package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant cannot be found or is soft-deleted.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantAlreadyExists is returned when creating a tenant whose name is taken,
	// regardless of the existing tenant's deleted flag.
	ErrTenantAlreadyExists = errors.New("tenant already exists")

	// ErrDomainAlreadyExists is returned when a declared domain is already bound
	// to an active tenant.
	ErrDomainAlreadyExists = errors.New("domain already exists")

	// ErrNoTenantContext is returned when a tenant-scoped operation runs with no
	// tenant bound to the context. This is a programming-contract violation and
	// must fail the operation rather than fall back to any shared database.
	ErrNoTenantContext = errors.New("no tenant in context")
)
