package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/docvault/pkg/tenant"
)

const batchesCollection = "batches"

// Repository is the tenant-aware batch store.
type Repository interface {
	Save(ctx context.Context, b *Batch) (*Batch, error)
	FindByID(ctx context.Context, id string) (*Batch, error)
	FindAll(ctx context.Context) ([]Batch, error)
	FindByStatus(ctx context.Context, status Status) ([]Batch, error)
	FindByType(ctx context.Context, batchType Type) ([]Batch, error)
	FindByCreatedBy(ctx context.Context, createdBy string) ([]Batch, error)
	FindByTenantName(ctx context.Context, tenantName string) ([]Batch, error)
	FindByCreatedAtBetween(ctx context.Context, from, to time.Time) ([]Batch, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	CountByCreatedBy(ctx context.Context, createdBy string) (int64, error)
}

// MongoRepository implements Repository on the per-tenant databases.
type MongoRepository struct {
	dbs *tenant.Databases
}

// NewMongoRepository creates a tenant-aware batch repository.
func NewMongoRepository(dbs *tenant.Databases) *MongoRepository {
	return &MongoRepository{dbs: dbs}
}

func (r *MongoRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.dbs.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(batchesCollection), nil
}

// Save persists the batch, refreshing the mutation timestamp on every write.
func (r *MongoRepository) Save(ctx context.Context, b *Batch) (*Batch, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	b.UpdatedAt = &now

	if _, err := col.ReplaceOne(ctx,
		bson.M{"_id": b.ID},
		b,
		options.Replace().SetUpsert(true),
	); err != nil {
		return nil, fmt.Errorf("save batch %s: %w", b.ID, err)
	}
	return b, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Batch, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var b Batch
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find batch %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoRepository) FindAll(ctx context.Context) ([]Batch, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) FindByStatus(ctx context.Context, status Status) ([]Batch, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *MongoRepository) FindByType(ctx context.Context, batchType Type) ([]Batch, error) {
	return r.find(ctx, bson.M{"type": batchType})
}

func (r *MongoRepository) FindByCreatedBy(ctx context.Context, createdBy string) ([]Batch, error) {
	return r.find(ctx, bson.M{"created_by": createdBy})
}

func (r *MongoRepository) FindByTenantName(ctx context.Context, tenantName string) ([]Batch, error) {
	return r.find(ctx, bson.M{"tenant_name": tenantName})
}

func (r *MongoRepository) FindByCreatedAtBetween(ctx context.Context, from, to time.Time) ([]Batch, error) {
	return r.find(ctx, bson.M{"created_at": bson.M{"$gte": from, "$lte": to}})
}

func (r *MongoRepository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	return r.count(ctx, bson.M{"status": status})
}

func (r *MongoRepository) CountByCreatedBy(ctx context.Context, createdBy string) (int64, error) {
	return r.count(ctx, bson.M{"created_by": createdBy})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]Batch, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find batches: %w", err)
	}

	var batches []Batch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("decode batches: %w", err)
	}
	return batches, nil
}

func (r *MongoRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	count, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count batches: %w", err)
	}
	return count, nil
}
