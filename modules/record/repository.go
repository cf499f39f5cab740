package record

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

const recordsCollection = "records"

// Repository is the tenant-aware record store. Filters compose by logical
// AND; count variants mirror each filter shape.
type Repository interface {
	Save(ctx context.Context, rec *Record) (*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	FindAll(ctx context.Context) ([]Record, error)
	FindByBatchID(ctx context.Context, batchID string) ([]Record, error)
	FindByBatchIDAndStatus(ctx context.Context, batchID string, status Status) ([]Record, error)
	FindByBatchIDAndStatusAndDocumentType(ctx context.Context, batchID string, status Status, documentType string) ([]Record, error)
	FindByStatus(ctx context.Context, status Status) ([]Record, error)
	FindByType(ctx context.Context, recordType Type) ([]Record, error)
	FindByTenantName(ctx context.Context, tenantName string) ([]Record, error)
	FindByCreatedBy(ctx context.Context, createdBy string) ([]Record, error)
	FindByCreatedAtBetween(ctx context.Context, from, to time.Time) ([]Record, error)
	Count(ctx context.Context) (int64, error)
	CountByBatchID(ctx context.Context, batchID string) (int64, error)
	CountByBatchIDAndStatus(ctx context.Context, batchID string, status Status) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	CountByType(ctx context.Context, recordType Type) (int64, error)
	CountByTenantName(ctx context.Context, tenantName string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByBatchID(ctx context.Context, batchID string) (int64, error)
}

// MongoRepository implements Repository on the per-tenant databases.
type MongoRepository struct {
	dbs *tenant.Databases
}

// NewMongoRepository creates a tenant-aware record repository.
func NewMongoRepository(dbs *tenant.Databases) *MongoRepository {
	return &MongoRepository{dbs: dbs}
}

func (r *MongoRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.dbs.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(recordsCollection), nil
}

// Save persists the record, refreshing the mutation timestamp on every
// write, including the first insert.
func (r *MongoRepository) Save(ctx context.Context, rec *Record) (*Record, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec.UpdatedAt = &now

	if _, err := col.ReplaceOne(ctx,
		bson.M{"_id": rec.ID},
		rec,
		options.Replace().SetUpsert(true),
	); err != nil {
		return nil, fmt.Errorf("save record %s: %w", rec.ID, err)
	}
	return rec, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Record, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var rec Record
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find record %s: %w", id, err)
	}
	return &rec, nil
}

func (r *MongoRepository) FindAll(ctx context.Context) ([]Record, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) FindByBatchID(ctx context.Context, batchID string) ([]Record, error) {
	return r.find(ctx, bson.M{"batch_id": batchID})
}

func (r *MongoRepository) FindByBatchIDAndStatus(ctx context.Context, batchID string, status Status) ([]Record, error) {
	return r.find(ctx, bson.M{"batch_id": batchID, "status": status})
}

func (r *MongoRepository) FindByBatchIDAndStatusAndDocumentType(ctx context.Context, batchID string, status Status, documentType string) ([]Record, error) {
	return r.find(ctx, bson.M{"batch_id": batchID, "status": status, "document_type": documentType})
}

func (r *MongoRepository) FindByStatus(ctx context.Context, status Status) ([]Record, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *MongoRepository) FindByType(ctx context.Context, recordType Type) ([]Record, error) {
	return r.find(ctx, bson.M{"type": recordType})
}

func (r *MongoRepository) FindByTenantName(ctx context.Context, tenantName string) ([]Record, error) {
	return r.find(ctx, bson.M{"tenant_name": tenantName})
}

func (r *MongoRepository) FindByCreatedBy(ctx context.Context, createdBy string) ([]Record, error) {
	return r.find(ctx, bson.M{"created_by": createdBy})
}

// FindByCreatedAtBetween filters on creation time, inclusive at both ends.
func (r *MongoRepository) FindByCreatedAtBetween(ctx context.Context, from, to time.Time) ([]Record, error) {
	return r.find(ctx, bson.M{"created_at": bson.M{"$gte": from, "$lte": to}})
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{})
}

func (r *MongoRepository) CountByBatchID(ctx context.Context, batchID string) (int64, error) {
	return r.count(ctx, bson.M{"batch_id": batchID})
}

func (r *MongoRepository) CountByBatchIDAndStatus(ctx context.Context, batchID string, status Status) (int64, error) {
	return r.count(ctx, bson.M{"batch_id": batchID, "status": status})
}

func (r *MongoRepository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	return r.count(ctx, bson.M{"status": status})
}

func (r *MongoRepository) CountByType(ctx context.Context, recordType Type) (int64, error) {
	return r.count(ctx, bson.M{"type": recordType})
}

func (r *MongoRepository) CountByTenantName(ctx context.Context, tenantName string) (int64, error) {
	return r.count(ctx, bson.M{"tenant_name": tenantName})
}

func (r *MongoRepository) DeleteByID(ctx context.Context, id string) error {
	col, err := r.collection(ctx)
	if err != nil {
		return err
	}
	if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

// DeleteByBatchID removes all records of a batch and reports how many were
// deleted.
func (r *MongoRepository) DeleteByBatchID(ctx context.Context, batchID string) (int64, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}
	res, err := col.DeleteMany(ctx, bson.M{"batch_id": batchID})
	if err != nil {
		return 0, fmt.Errorf("delete records of batch %s: %w", batchID, err)
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]Record, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func (r *MongoRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	count, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}
