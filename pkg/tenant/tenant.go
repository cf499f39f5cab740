package tenant

import (
	"context"
	"time"
)

// Tenant represents an isolated customer organization. The name is the
// routing key for per-tenant database resolution, not the surrogate ID.
type Tenant struct {
	ID        string     `bson:"_id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Type      string     `bson:"type" json:"type"`
	Domains   []string   `bson:"domains" json:"domains"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	CreatedBy string     `bson:"created_by" json:"created_by"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy string     `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	Deleted   bool       `bson:"deleted" json:"deleted"`
}

// Domain binds an email domain to the tenant that owns it. Registration and
// login use it to route a user to a tenant from their email address alone.
type Domain struct {
	ID         string     `bson:"_id" json:"id"`
	Name       string     `bson:"name" json:"name"`
	TenantName string     `bson:"tenant_name" json:"tenant_name"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	CreatedBy  string     `bson:"created_by" json:"created_by"`
	UpdatedAt  *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy  string     `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	Deleted    bool       `bson:"deleted" json:"deleted"`
}

// Registry is the authoritative store of tenant records and domain bindings.
// FindByName does not filter soft-deleted tenants; callers must treat a
// returned tenant with Deleted=true as logically absent. This get-then-check
// pattern is relied on throughout the calling code.
type Registry interface {
	// FindByName returns the tenant with the given name, or nil if none exists.
	FindByName(ctx context.Context, name string) (*Tenant, error)

	// Save persists the tenant, inserting or replacing by ID.
	Save(ctx context.Context, t *Tenant) (*Tenant, error)

	// FindActiveDomain returns the non-deleted domain binding for the given
	// domain name, or nil if none exists.
	FindActiveDomain(ctx context.Context, name string) (*Domain, error)

	// ExistsActiveDomain reports whether a non-deleted binding exists for the
	// given domain name.
	ExistsActiveDomain(ctx context.Context, name string) (bool, error)

	// SaveDomain persists the domain binding, inserting or replacing by ID.
	SaveDomain(ctx context.Context, d *Domain) (*Domain, error)
}
