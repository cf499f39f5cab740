package batch

import (
	"fmt"
	"strings"
	"time"
)

// Status tracks a batch through its processing pipeline.
type Status string

const (
	StatusCreated    Status = "created"
	StatusUploading  Status = "uploading"
	StatusUploaded   Status = "uploaded"
	StatusParsing    Status = "parsing"
	StatusParsed     Status = "parsed"
	StatusValidating Status = "validating"
	StatusValidated  Status = "validated"
)

// ParseStatus converts a string to a Status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case StatusCreated, StatusUploading, StatusUploaded,
		StatusParsing, StatusParsed, StatusValidating, StatusValidated:
		return Status(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown batch status: %s", s)
	}
}

// Type distinguishes what a batch is for.
type Type string

const (
	TypeImport Type = "import"
	TypeExport Type = "export"
)

// Batch groups records for processing. It lives in the owning tenant's
// isolated database.
type Batch struct {
	ID         string            `bson:"_id" json:"id"`
	TenantName string            `bson:"tenant_name" json:"tenant_name"`
	Name       string            `bson:"name" json:"name"`
	Status     Status            `bson:"status" json:"status"`
	Type       Type              `bson:"type" json:"type"`
	Records    []string          `bson:"records" json:"records"`
	CreatedAt  time.Time         `bson:"created_at" json:"created_at"`
	CreatedBy  string            `bson:"created_by" json:"created_by"`
	UpdatedAt  *time.Time        `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy  string            `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	Owners     []string          `bson:"owners" json:"owners"`
	Editors    []string          `bson:"editors" json:"editors"`
	Viewers    []string          `bson:"viewers" json:"viewers"`
	Tags       map[string]string `bson:"tags,omitempty" json:"tags,omitempty"`
	Deleted    bool              `bson:"deleted" json:"deleted"`
}
