package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env            string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	JWTTTL         time.Duration
	SessionSecret  string
	AllowCrossSite bool // cross-site session cookie (SameSite=None; Secure)
	HealthAdminKey string
	AutoMigrate    bool
	StoreCORS      []string // STORE_CORS, comma separated origins
	AdminCORS      []string // ADMIN_CORS, comma separated origins
	BackendURL     string
	LoginRateLimit int // attempts per email+IP per minute

	FileStorageType    string // "s3" or "disabled"
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucketName      string
	AWSEndpoint        string // set for S3-compatible stores (R2, MinIO)
	AWSPublicURL       string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "9000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BACKEND_URL", "http://localhost:9000")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("FILE_STORAGE_TYPE", "s3")
	viper.SetDefault("LOGIN_RATE_LIMIT", 5)
	viper.SetDefault("JWT_EXPIRES_IN", "24h")
	viper.SetDefault("DB_AUTO_MIGRATE", true)

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = viper.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	cfg := &Config{
		Env:                env,
		Port:               viper.GetString("PORT"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
		DatabaseURL:        viper.GetString("DATABASE_URL"),
		RedisURL:           viper.GetString("REDIS_URL"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		JWTTTL:             viper.GetDuration("JWT_EXPIRES_IN"),
		SessionSecret:      viper.GetString("SESSION_SECRET"),
		AllowCrossSite:     viper.GetBool("ALLOW_CROSS_SITE"),
		HealthAdminKey:     viper.GetString("HEALTH_ADMIN_KEY"),
		AutoMigrate:        viper.GetBool("DB_AUTO_MIGRATE"),
		StoreCORS:          splitList(viper.GetString("STORE_CORS")),
		AdminCORS:          splitList(viper.GetString("ADMIN_CORS")),
		BackendURL:         strings.TrimRight(viper.GetString("BACKEND_URL"), "/"),
		LoginRateLimit:     viper.GetInt("LOGIN_RATE_LIMIT"),
		FileStorageType:    strings.ToLower(viper.GetString("FILE_STORAGE_TYPE")),
		AWSAccessKeyID:     viper.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          viper.GetString("AWS_REGION"),
		AWSBucketName:      viper.GetString("AWS_BUCKET_NAME"),
		AWSEndpoint:        viper.GetString("AWS_ENDPOINT"),
		AWSPublicURL:       strings.TrimRight(viper.GetString("AWS_PUBLIC_URL"), "/"),
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required in production")
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// StorageEnabled reports whether uploads to object storage are configured.
func (c *Config) StorageEnabled() bool {
	return c.FileStorageType != "disabled" && c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != "" && c.AWSBucketName != ""
}

// FileBackendURL is the base for public file URLs: AWS_PUBLIC_URL when set, else the
// bucket's virtual-hosted URL, else the backend itself.
func (c *Config) FileBackendURL() string {
	if c.AWSPublicURL != "" {
		return c.AWSPublicURL
	}
	if c.AWSBucketName != "" && c.AWSRegion != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.AWSBucketName, c.AWSRegion)
	}
	return c.BackendURL
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
