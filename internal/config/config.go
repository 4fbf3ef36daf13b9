package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config collects every environment-provided setting once at startup so the
// rest of the application receives it as an injected value.
type Config struct {
	DatabaseURL string
	RedisURL    string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioSecure    bool

	JWTSecret        string
	JWTAlgorithm     string
	JWTExpireMinutes int

	OpenAIAPIKey      string
	HuggingFaceAPIKey string

	Environment string

	MaxFileSizeMB     int64
	MaxFilesPerUpload int

	AllowedHosts   []string
	AllowedOrigins []string

	DatasetsBucket string
	ModelsBucket   string
	CacheBucket    string

	MeilisearchHost   string
	MeilisearchAPIKey string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		MinioEndpoint:     os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:    os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:    os.Getenv("MINIO_SECRET_KEY"),
		MinioSecure:       envBool("MINIO_SECURE", false),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTAlgorithm:      envString("JWT_ALGORITHM", "HS256"),
		JWTExpireMinutes:  envInt("JWT_EXPIRE_MINUTES", 30),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		HuggingFaceAPIKey: os.Getenv("HUGGING_FACE_API_KEY"),
		Environment:       envString("ENVIRONMENT", "development"),
		MaxFileSizeMB:     int64(envInt("MAX_FILE_SIZE_MB", 2048)),
		MaxFilesPerUpload: envInt("MAX_FILES_PER_UPLOAD", 10),
		AllowedHosts:      splitList(envString("ALLOWED_HOSTS", "*")),
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),
		DatasetsBucket:    envString("DATASETS_BUCKET", "datasets"),
		ModelsBucket:      envString("MODELS_BUCKET", "models"),
		CacheBucket:       envString("CACHE_BUCKET", "cache"),
		MeilisearchHost:   os.Getenv("MEILISEARCH_HOST"),
		MeilisearchAPIKey: os.Getenv("MEILISEARCH_API_KEY"),
	}

	required := map[string]string{
		"DATABASE_URL":     cfg.DatabaseURL,
		"REDIS_URL":        cfg.RedisURL,
		"MINIO_ENDPOINT":   cfg.MinioEndpoint,
		"MINIO_ACCESS_KEY": cfg.MinioAccessKey,
		"MINIO_SECRET_KEY": cfg.MinioSecretKey,
		"JWT_SECRET":       cfg.JWTSecret,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("%s environment variable is not set", name)
		}
	}

	// Token signing is HMAC only; anything else would silently downgrade
	// middleware validation.
	if cfg.JWTAlgorithm != "HS256" {
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q, only HS256 is supported", cfg.JWTAlgorithm)
	}

	return cfg, nil
}

func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// Buckets returns every bucket the object store must provide.
func (c *Config) Buckets() []string {
	return []string{c.DatasetsBucket, c.ModelsBucket, c.CacheBucket}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
