package blob

// Config represents the configuration for blob storage.
type Config struct {
	Bucket         string `env:"BLOB_BUCKET,required"`
	Region         string `env:"BLOB_REGION,required"`
	AccessKeyID    string `env:"BLOB_ACCESS_KEY_ID"`
	SecretKey      string `env:"BLOB_SECRET_KEY"`
	Endpoint       string `env:"BLOB_ENDPOINT"`         // Optional: for S3-compatible services
	ForcePathStyle bool   `env:"BLOB_FORCE_PATH_STYLE"` // For S3-compatible services like MinIO
}
