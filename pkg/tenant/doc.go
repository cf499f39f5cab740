// Package tenant implements multi-tenant request routing: which logical
// database a request operates against, how that choice travels through the
// call graph, and how per-tenant database handles are cached.
//
// The active tenant is carried on context.Context (WithTenant/FromContext).
// Authentication middleware binds the tenant for the duration of a request;
// anything spawned from that request's context observes the same binding,
// and unrelated requests never share one.
//
// Databases maps tenant names to lazily-created *mongo.Database handles with
// an at-most-one-construction-per-key guarantee. Handles are never evicted:
// the set of active tenants is small and handle-local connection pooling is
// meant to be shared for the life of the process.
//
// Tenant-scoped data access must resolve its handle via
// Databases.FromContext, which fails with ErrNoTenantContext when no tenant
// is bound. There is deliberately no fallback database.
package tenant
