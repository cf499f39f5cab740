package record

import (
	"fmt"
	"strings"
	"time"
)

// Status tracks a record's upload/processing lifecycle.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUploaded  Status = "uploaded"
	StatusParsing   Status = "parsing"
	StatusParsed    Status = "parsed"
	StatusValidated Status = "validated"
	StatusFailed    Status = "failed"
)

// ParseStatus converts a string to a Status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case StatusCreated, StatusUploaded, StatusParsing,
		StatusParsed, StatusValidated, StatusFailed:
		return Status(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown record status: %s", s)
	}
}

// Type distinguishes the kind of document a record holds.
type Type string

const (
	TypeInvoice  Type = "invoice"
	TypeReceipt  Type = "receipt"
	TypeDocument Type = "document"
)

// Record represents a single file within a batch. It lives in the owning
// tenant's isolated database.
type Record struct {
	ID           string     `bson:"_id" json:"id"`
	TenantName   string     `bson:"tenant_name" json:"tenant_name"`
	BatchID      string     `bson:"batch_id" json:"batch_id"`
	FileName     string     `bson:"file_name" json:"file_name"`
	FilePath     string     `bson:"file_path,omitempty" json:"file_path,omitempty"`
	Status       Status     `bson:"status" json:"status"`
	Type         Type       `bson:"type" json:"type"`
	DocumentType string     `bson:"document_type,omitempty" json:"document_type,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	CreatedBy    string     `bson:"created_by" json:"created_by"`
	UpdatedAt    *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy    string     `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}
