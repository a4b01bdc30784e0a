// config/storage.go
package config

import (
	"fmt"
	"os"
)

// StorageConfig selects where uploaded file bytes live.
type StorageConfig struct {
	Type        string // local or s3
	LocalDir    string // upload directory for local storage
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3Bucket    string
	S3Endpoint  string // optional, for MinIO and other S3-compatible stores
}

// LoadStorageConfig reads storage settings from environment variables.
func LoadStorageConfig() *StorageConfig {
	storageType := os.Getenv("STORAGE_TYPE")
	if storageType == "" {
		storageType = "local"
	}

	return &StorageConfig{
		Type:        storageType,
		LocalDir:    getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
	}
}

// Validate checks that the selected backend has everything it needs.
func (c *StorageConfig) Validate() error {
	if c.Type == "s3" {
		if c.S3AccessKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY is not set")
		}
		if c.S3SecretKey == "" {
			return fmt.Errorf("S3_SECRET_KEY is not set")
		}
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is not set")
		}
	}
	return nil
}

// IsS3Enabled reports whether the remote object store backend is active.
func (c *StorageConfig) IsS3Enabled() bool {
	return c.Type == "s3"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
