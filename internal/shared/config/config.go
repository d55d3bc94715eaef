package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	ChromePath      string
	EnginePoolSize  int
	CheckoutTimeout time.Duration
	RenderTimeout   time.Duration

	WorkerCount       int
	RetryMax          int
	RetryBaseBackoff  time.Duration
	StorageQuotaBytes int64

	TokenTTLHours   int
	TokenMaxUses    int
	TokenGCInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,
		DatabaseURL:     dbURL,

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		ChromePath:      getEnv("CHROME_PATH", ""),
		EnginePoolSize:  getEnvInt("ENGINE_POOL_SIZE", 3),
		CheckoutTimeout: getEnvDuration("ENGINE_CHECKOUT_TIMEOUT", 30*time.Second),
		RenderTimeout:   getEnvDuration("RENDER_TIMEOUT", 60*time.Second),

		WorkerCount:       getEnvInt("GENERATION_WORKERS", 4),
		RetryMax:          getEnvInt("GENERATION_RETRY_MAX", 3),
		RetryBaseBackoff:  getEnvDuration("GENERATION_RETRY_BACKOFF", 500*time.Millisecond),
		StorageQuotaBytes: getEnvInt64("STORAGE_QUOTA_BYTES", 100<<20),

		TokenTTLHours:   getEnvInt("DOWNLOAD_TOKEN_TTL_HOURS", 24),
		TokenMaxUses:    getEnvInt("DOWNLOAD_TOKEN_MAX_USES", 5),
		TokenGCInterval: getEnvDuration("DOWNLOAD_TOKEN_GC_INTERVAL", time.Hour),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
