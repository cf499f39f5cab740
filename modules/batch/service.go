package batch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/docvault/pkg/tenant"
)

// ErrBatchNotFound is returned when a batch does not exist in the active
// tenant's store.
var ErrBatchNotFound = errors.New("batch not found")

// Service implements batch lifecycle operations for the active tenant.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a batch service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create opens a new batch owned by the creator.
func (s *Service) Create(ctx context.Context, name string, batchType Type, tags map[string]string, createdBy string) (*Batch, error) {
	t, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenantContext
	}

	b, err := s.repo.Save(ctx, &Batch{
		ID:         uuid.NewString(),
		TenantName: t.Name,
		Name:       name,
		Status:     StatusCreated,
		Type:       batchType,
		CreatedAt:  time.Now(),
		CreatedBy:  createdBy,
		Owners:     []string{createdBy},
		Tags:       tags,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "batch created",
		slog.String("batch_id", b.ID),
		slog.String("name", b.Name))
	return b, nil
}

// Get returns a batch by ID, or ErrBatchNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Batch, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBatchNotFound
	}
	return b, nil
}

// List returns all batches in the active tenant's store.
func (s *Service) List(ctx context.Context) ([]Batch, error) {
	return s.repo.FindAll(ctx)
}

// ListByStatus returns batches with the given status.
func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Batch, error) {
	return s.repo.FindByStatus(ctx, status)
}

// ListByCreator returns batches created by the given user.
func (s *Service) ListByCreator(ctx context.Context, email string) ([]Batch, error) {
	return s.repo.FindByCreatedBy(ctx, email)
}

// UpdateStatus moves a batch to a new status, attributing the change.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status, updatedBy string) (*Batch, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBatchNotFound
	}

	b.Status = status
	b.UpdatedBy = updatedBy

	return s.repo.Save(ctx, b)
}
