package uploads

import (
	"fmt"
	"strings"
	"time"

	"ecomcore-backend/internal/config"

	"github.com/creasty/defaults"
)

// Config describes an S3-compatible bucket.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string `default:"us-east-1"`
	Bucket          string
	Endpoint        string // R2, Spaces, MinIO; forces path-style addressing
	PublicURL       string
	CacheControl    string        `default:"max-age=31536000"`
	SignedURLTTL    time.Duration `default:"1h"`
}

// ConfigFrom maps application config onto a storage Config with defaults applied.
func ConfigFrom(c *config.Config) (Config, error) {
	cfg := Config{
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
		Region:          c.AWSRegion,
		Bucket:          c.AWSBucketName,
		Endpoint:        c.AWSEndpoint,
		PublicURL:       c.AWSPublicURL,
	}
	if err := defaults.Set(&cfg); err != nil {
		return Config{}, fmt.Errorf("uploads: defaults: %w", err)
	}
	return cfg, nil
}

// PublicBase is the URL prefix objects are served from.
func (c Config) PublicBase() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
}
