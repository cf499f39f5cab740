package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SystemPrincipal is the synthetic actor recorded when no authenticated
// principal is in scope, e.g. bootstrap tenant creation.
const SystemPrincipal = "SYSTEM"

// ActorFunc resolves the email of the acting principal from the context.
// It reports false when no principal is in scope.
type ActorFunc func(ctx context.Context) (string, bool)

// ServiceOption configures the tenant service.
type ServiceOption func(*Service)

// WithActorResolver sets the function used to attribute writes to the acting
// principal. Without one, all writes are attributed to SystemPrincipal.
func WithActorResolver(fn ActorFunc) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.actor = fn
		}
	}
}

// Service implements the tenant lifecycle over a Registry.
type Service struct {
	registry Registry
	actor    ActorFunc
	log      *slog.Logger
}

// NewService creates a tenant service.
func NewService(registry Registry, log *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		registry: registry,
		actor:    func(context.Context) (string, bool) { return "", false },
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTenant creates a tenant and one domain binding per declared domain.
//
// The name check rejects collisions regardless of the existing tenant's
// deleted flag; the domain checks only consider active bindings and
// short-circuit on the first conflict. The tenant row and the domain rows
// are separate writes with no transaction around them: a crash in between
// can leave a tenant with partial domain bindings. This matches the
// deployed behavior and its retry semantics.
func (s *Service) CreateTenant(ctx context.Context, name, tenantType string, domains []string) (*Tenant, error) {
	existing, err := s.registry.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrTenantAlreadyExists, name)
	}

	for _, domain := range domains {
		taken, err := s.registry.ExistsActiveDomain(ctx, domain)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", ErrDomainAlreadyExists, domain)
		}
	}

	createdBy := s.actingPrincipal(ctx)
	now := time.Now()

	t, err := s.registry.Save(ctx, &Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      tenantType,
		Domains:   domains,
		CreatedAt: now,
		CreatedBy: createdBy,
	})
	if err != nil {
		return nil, err
	}

	for _, domain := range domains {
		if _, err := s.registry.SaveDomain(ctx, &Domain{
			ID:         uuid.NewString(),
			Name:       domain,
			TenantName: t.Name,
			CreatedAt:  time.Now(),
			CreatedBy:  createdBy,
		}); err != nil {
			return nil, err
		}
	}

	s.log.InfoContext(ctx, "tenant created",
		slog.String("name", t.Name),
		slog.Int("domains", len(domains)),
		slog.String("created_by", createdBy))

	return t, nil
}

// GetTenantByName returns the tenant with the given name, or nil when it
// does not exist or is soft-deleted.
func (s *Service) GetTenantByName(ctx context.Context, name string) (*Tenant, error) {
	t, err := s.registry.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if t == nil || t.Deleted {
		return nil, nil
	}
	return t, nil
}

// DeleteTenant soft-deletes the tenant. It is idempotent: deleting an absent
// or already-deleted tenant returns false without writing.
func (s *Service) DeleteTenant(ctx context.Context, name string) (bool, error) {
	t, err := s.GetTenantByName(ctx, name)
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, nil
	}

	now := time.Now()
	t.Deleted = true
	t.UpdatedAt = &now
	t.UpdatedBy = s.actingPrincipal(ctx)

	if _, err := s.registry.Save(ctx, t); err != nil {
		return false, err
	}

	s.log.InfoContext(ctx, "tenant deleted", slog.String("name", name))
	return true, nil
}

func (s *Service) actingPrincipal(ctx context.Context) string {
	if email, ok := s.actor(ctx); ok && email != "" {
		return email
	}
	return SystemPrincipal
}
