package record

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/docvault/pkg/blob"
	"github.com/dmitrymomot/docvault/pkg/tenant"
)

var (
	// ErrRecordNotFound is returned when a record does not exist in the
	// active tenant's store.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUploadIncomplete is returned when an upload is reported complete but
	// the object is absent from blob storage. Absence is an explicit error,
	// never treated as success.
	ErrUploadIncomplete = errors.New("file not found in storage, upload may not have completed")
)

// UploadRequest describes a requested file upload within a batch.
type UploadRequest struct {
	BatchID     string
	FileName    string
	Type        Type
	RequestedBy string
}

// UploadGrant is the outcome of an accepted upload request: a created record
// and a time-limited, write-only URL for the client to upload against.
type UploadGrant struct {
	RecordID  string `json:"record_id"`
	UploadURL string `json:"upload_url"`
}

// Service implements the record upload lifecycle for the active tenant.
type Service struct {
	repo    Repository
	storage blob.Storage
	log     *slog.Logger
}

// NewService creates a record service.
func NewService(repo Repository, storage blob.Storage, log *slog.Logger) *Service {
	return &Service{repo: repo, storage: storage, log: log}
}

// RequestUpload creates a record in CREATED state and issues an upload URL.
func (s *Service) RequestUpload(ctx context.Context, req UploadRequest) (*UploadGrant, error) {
	t, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenantContext
	}

	rec, err := s.repo.Save(ctx, &Record{
		ID:         uuid.NewString(),
		TenantName: t.Name,
		BatchID:    req.BatchID,
		FileName:   req.FileName,
		Status:     StatusCreated,
		Type:       req.Type,
		CreatedAt:  time.Now(),
		CreatedBy:  req.RequestedBy,
	})
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.storage.UploadURL(ctx, rec.ID, rec.FileName)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "upload requested",
		slog.String("record_id", rec.ID),
		slog.String("batch_id", rec.BatchID))

	return &UploadGrant{RecordID: rec.ID, UploadURL: uploadURL}, nil
}

// CompleteUpload marks a record as uploaded after confirming the object
// actually exists in blob storage.
func (s *Service) CompleteUpload(ctx context.Context, recordID, completedBy string) (*Record, error) {
	rec, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}

	if !s.storage.Exists(ctx, rec.ID, rec.FileName) {
		return nil, ErrUploadIncomplete
	}

	rec.Status = StatusUploaded
	rec.FilePath = blob.ObjectKey(rec.ID, rec.FileName)
	rec.UpdatedBy = completedBy

	rec, err = s.repo.Save(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "upload completed", slog.String("record_id", rec.ID))
	return rec, nil
}

// DownloadURL issues a time-limited read URL for a record's file.
func (s *Service) DownloadURL(ctx context.Context, recordID string) (string, error) {
	rec, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrRecordNotFound
	}
	return s.storage.DownloadURL(ctx, rec.ID, rec.FileName)
}

// Get returns a record by ID, or ErrRecordNotFound.
func (s *Service) Get(ctx context.Context, recordID string) (*Record, error) {
	rec, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// ListByBatch returns all records of a batch, optionally filtered by status.
func (s *Service) ListByBatch(ctx context.Context, batchID string, status *Status) ([]Record, error) {
	if status != nil {
		return s.repo.FindByBatchIDAndStatus(ctx, batchID, *status)
	}
	return s.repo.FindByBatchID(ctx, batchID)
}

// DeleteByBatch removes all records of a batch and reports the count.
func (s *Service) DeleteByBatch(ctx context.Context, batchID string) (int64, error) {
	deleted, err := s.repo.DeleteByBatchID(ctx, batchID)
	if err != nil {
		return 0, err
	}
	s.log.InfoContext(ctx, "batch records deleted",
		slog.String("batch_id", batchID),
		slog.Int64("count", deleted))
	return deleted, nil
}
