package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage backend names accepted in LINKPIXEL_STORAGE.
const (
	StorageAuto     = "auto"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Storage     string // LINKPIXEL_STORAGE (postgres|sqlite|auto, default "auto")
	DatabaseURL string // LINKPIXEL_DATABASE_URL (postgres URL; required for "postgres")
	SQLitePath  string // LINKPIXEL_SQLITE_PATH (default "linkpixel.db")
	HTTPAddr    string // LINKPIXEL_HTTP_ADDR (default ":8080")
	AuthToken   string // LINKPIXEL_AUTH_TOKEN (optional, empty = admin auth disabled)

	// Geo lookup settings
	GeoURL      string        // LINKPIXEL_GEO_URL (default "https://ipinfo.io")
	GeoToken    string        // LINKPIXEL_GEO_TOKEN (optional)
	GeoTimeout  time.Duration // LINKPIXEL_GEO_TIMEOUT (default 3s)
	IPAccuracyM float64       // LINKPIXEL_IP_ACCURACY_M (default 25000)

	// Image storage settings
	ImageDir        string // LINKPIXEL_IMAGE_DIR (default "images")
	ImageS3Bucket   string // LINKPIXEL_IMAGE_S3_BUCKET (enables S3 when set)
	ImageS3Prefix   string // LINKPIXEL_IMAGE_S3_PREFIX (default "linkpixel/images")
	ImageS3Region   string // LINKPIXEL_IMAGE_S3_REGION (default "us-east-1")
	ImageS3Endpoint string // LINKPIXEL_IMAGE_S3_ENDPOINT (custom endpoint for MinIO)
}

func Load() (*Config, error) {
	c := &Config{
		Storage:         envOrDefault("LINKPIXEL_STORAGE", StorageAuto),
		DatabaseURL:     os.Getenv("LINKPIXEL_DATABASE_URL"),
		SQLitePath:      envOrDefault("LINKPIXEL_SQLITE_PATH", "linkpixel.db"),
		HTTPAddr:        envOrDefault("LINKPIXEL_HTTP_ADDR", ":8080"),
		AuthToken:       os.Getenv("LINKPIXEL_AUTH_TOKEN"),
		GeoURL:          envOrDefault("LINKPIXEL_GEO_URL", "https://ipinfo.io"),
		GeoToken:        os.Getenv("LINKPIXEL_GEO_TOKEN"),
		ImageDir:        envOrDefault("LINKPIXEL_IMAGE_DIR", "images"),
		ImageS3Bucket:   os.Getenv("LINKPIXEL_IMAGE_S3_BUCKET"),
		ImageS3Prefix:   envOrDefault("LINKPIXEL_IMAGE_S3_PREFIX", "linkpixel/images"),
		ImageS3Region:   envOrDefault("LINKPIXEL_IMAGE_S3_REGION", "us-east-1"),
		ImageS3Endpoint: os.Getenv("LINKPIXEL_IMAGE_S3_ENDPOINT"),
	}

	switch c.Storage {
	case StorageAuto, StoragePostgres, StorageSQLite:
	default:
		return nil, fmt.Errorf("LINKPIXEL_STORAGE: unknown backend %q", c.Storage)
	}
	if c.Storage == StoragePostgres && c.DatabaseURL == "" {
		return nil, fmt.Errorf("LINKPIXEL_DATABASE_URL is required when LINKPIXEL_STORAGE=postgres")
	}

	timeoutStr := envOrDefault("LINKPIXEL_GEO_TIMEOUT", "3s")
	d, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("LINKPIXEL_GEO_TIMEOUT: %w", err)
	}
	c.GeoTimeout = d

	accuracyStr := envOrDefault("LINKPIXEL_IP_ACCURACY_M", "25000")
	acc, err := strconv.ParseFloat(accuracyStr, 64)
	if err != nil {
		return nil, fmt.Errorf("LINKPIXEL_IP_ACCURACY_M: %w", err)
	}
	c.IPAccuracyM = acc

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
