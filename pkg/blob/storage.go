package blob

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage issues time-limited URLs for direct client upload/download and
// answers existence checks. Objects are keyed by record:
// records/<record_id>/<sanitized_filename>.
type Storage interface {
	// UploadURL returns a time-limited, write-only URL for the record's file.
	UploadURL(ctx context.Context, recordID, fileName string) (string, error)

	// DownloadURL returns a time-limited, read-only URL for the record's file.
	DownloadURL(ctx context.Context, recordID, fileName string) (string, error)

	// Exists reports whether the record's file is present in storage.
	Exists(ctx context.Context, recordID, fileName string) bool

	// Delete removes the record's file from storage.
	Delete(ctx context.Context, recordID, fileName string) error
}

const (
	uploadURLTTL   = 15 * time.Minute
	downloadURLTTL = time.Hour
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName replaces every character outside [A-Za-z0-9.-] with an
// underscore. The mapping must stay stable: object keys derived from it are
// looked up again on download and existence checks.
func SanitizeFileName(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// ObjectKey returns the storage key for a record's file.
func ObjectKey(recordID, fileName string) string {
	return "records/" + recordID + "/" + SanitizeFileName(fileName)
}

// S3Storage implements Storage against S3 or an S3-compatible service.
// It is safe for concurrent use.
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewS3Storage creates an S3-backed storage from config.
func NewS3Storage(ctx context.Context, cfg Config) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	awsOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
	}, nil
}

func (s *S3Storage) UploadURL(ctx context.Context, recordID, fileName string) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(recordID, fileName)),
	}, s3.WithPresignExpires(uploadURLTTL))
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, nil
}

func (s *S3Storage) DownloadURL(ctx context.Context, recordID, fileName string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(recordID, fileName)),
	}, s3.WithPresignExpires(downloadURLTTL))
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return req.URL, nil
}

func (s *S3Storage) Exists(ctx context.Context, recordID, fileName string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(recordID, fileName)),
	})
	return err == nil
}

func (s *S3Storage) Delete(ctx context.Context, recordID, fileName string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(recordID, fileName)),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
