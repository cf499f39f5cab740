package user

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

const usersCollection = "users"

// Repository is the tenant-aware user store. Every operation resolves the
// active tenant from the context before touching data; with no tenant bound
// it fails with tenant.ErrNoTenantContext.
type Repository interface {
	Save(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhoneNumber(ctx context.Context, phone string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
}

// MongoRepository implements Repository on the per-tenant databases.
type MongoRepository struct {
	dbs *tenant.Databases
}

// NewMongoRepository creates a tenant-aware user repository.
func NewMongoRepository(dbs *tenant.Databases) *MongoRepository {
	return &MongoRepository{dbs: dbs}
}

func (r *MongoRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.dbs.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(usersCollection), nil
}

// Save persists the user, refreshing the mutation timestamp on every write,
// including the first insert.
func (r *MongoRepository) Save(ctx context.Context, u *User) (*User, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u.UpdatedAt = &now

	if _, err := col.ReplaceOne(ctx,
		bson.M{"_id": u.ID},
		u,
		options.Replace().SetUpsert(true),
	); err != nil {
		return nil, fmt.Errorf("save user %s: %w", u.ID, err)
	}
	return u, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByPhoneNumber(ctx context.Context, phone string) (*User, error) {
	return r.findOne(ctx, bson.M{"phone_number": phone})
}

func (r *MongoRepository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	return r.findOne(ctx, bson.M{"verification_token": token})
}

func (r *MongoRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return false, err
	}
	count, err := col.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var u User
	err = col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
