package tenant

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	tenantsCollection = "tenants"
	domainsCollection = "domains"
)

// MongoRegistry implements Registry against the shared (global) database.
// Tenant records and domain bindings are the only data that lives outside
// the per-tenant databases.
type MongoRegistry struct {
	tenants *mongo.Collection
	domains *mongo.Collection
}

// NewMongoRegistry creates a registry on the given shared database.
func NewMongoRegistry(db *mongo.Database) *MongoRegistry {
	return &MongoRegistry{
		tenants: db.Collection(tenantsCollection),
		domains: db.Collection(domainsCollection),
	}
}

func (r *MongoRegistry) FindByName(ctx context.Context, name string) (*Tenant, error) {
	var t Tenant
	err := r.tenants.FindOne(ctx, bson.M{"name": name}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant %q: %w", name, err)
	}
	return &t, nil
}

func (r *MongoRegistry) Save(ctx context.Context, t *Tenant) (*Tenant, error) {
	_, err := r.tenants.ReplaceOne(ctx,
		bson.M{"_id": t.ID},
		t,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("save tenant %q: %w", t.Name, err)
	}
	return t, nil
}

func (r *MongoRegistry) FindActiveDomain(ctx context.Context, name string) (*Domain, error) {
	var d Domain
	err := r.domains.FindOne(ctx, bson.M{"name": name, "deleted": false}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find domain %q: %w", name, err)
	}
	return &d, nil
}

func (r *MongoRegistry) ExistsActiveDomain(ctx context.Context, name string) (bool, error) {
	count, err := r.domains.CountDocuments(ctx,
		bson.M{"name": name, "deleted": false},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("count domain %q: %w", name, err)
	}
	return count > 0, nil
}

func (r *MongoRegistry) SaveDomain(ctx context.Context, d *Domain) (*Domain, error) {
	_, err := r.domains.ReplaceOne(ctx,
		bson.M{"_id": d.ID},
		d,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("save domain %q: %w", d.Name, err)
	}
	return d, nil
}
