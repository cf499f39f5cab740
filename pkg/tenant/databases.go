package tenant

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DatabaseName returns the logical database name for a tenant. The mapping
// must stay stable across deployments for data continuity.
func DatabaseName(tenantName string) string {
	return "tenant-" + tenantName + "-db"
}

// OpenFunc opens a handle to the named logical database.
type OpenFunc func(dbName string) *mongo.Database

// Databases caches one database handle per tenant name. It is the single
// isolation boundary between tenants' data: every tenant-scoped query in the
// system routes through it, so the at-most-one-handle-per-key invariant is
// what keeps connection pooling shared and tenants separated.
//
// Handles are created lazily on first access and never evicted.
type Databases struct {
	mu      sync.Mutex
	open    OpenFunc
	handles map[string]*dbHandle
}

type dbHandle struct {
	once sync.Once
	db   *mongo.Database
}

// NewDatabases creates a handle cache backed by the given mongo client.
func NewDatabases(client *mongo.Client) *Databases {
	return NewDatabasesWithOpener(func(dbName string) *mongo.Database {
		return client.Database(dbName)
	})
}

// NewDatabasesWithOpener creates a handle cache with a custom opener.
func NewDatabasesWithOpener(open OpenFunc) *Databases {
	return &Databases{
		open:    open,
		handles: make(map[string]*dbHandle),
	}
}

// Get returns the database handle for the given tenant name, creating it on
// first access. The opener runs at most once per key even under concurrent
// first access; every caller receives the same handle instance.
func (d *Databases) Get(tenantName string) *mongo.Database {
	d.mu.Lock()
	h, ok := d.handles[tenantName]
	if !ok {
		h = &dbHandle{}
		d.handles[tenantName] = h
	}
	d.mu.Unlock()

	// The entry is inserted before the opener runs, so a concurrent caller
	// for the same key blocks on the same once instead of racing a second
	// construction.
	h.once.Do(func() {
		h.db = d.open(DatabaseName(tenantName))
	})
	return h.db
}

// FromContext resolves the active tenant from the context and returns its
// database handle. It fails closed with ErrNoTenantContext when no tenant is
// bound; tenant-scoped data must never silently route to a shared database.
func (d *Databases) FromContext(ctx context.Context) (*mongo.Database, error) {
	name, ok := NameFromContext(ctx)
	if !ok {
		return nil, ErrNoTenantContext
	}
	return d.Get(name), nil
}
