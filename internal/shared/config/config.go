package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port                  string
	CORSAllowOrigin       []string
	ObjectStoreType       string
	LocalStoreDir         string
	AWSRegion             string
	S3Bucket              string
	S3Prefix              string
	SSEKMSKeyID           string
	DatabaseURL           string
	Env                   string
	ReportQueueURL        string
	AdminEmails           []string
	StripeWebhookSecret   string
	BalanceThresholdCents int64
	PreviewCacheSize      int
	RateLimitRPM          int
}

const (
	defaultBalanceThresholdCents = 85000
	defaultPreviewCacheSize      = 512
	defaultRateLimitRPM          = 120
)

// Load reads configuration from environment variables with sensible defaults.
// Values from .env files are used only when the variable is not set.
func Load() Config {
	return load(newViper(".env", "cmd/.env"))
}

func newViper(envFiles ...string) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("BALANCE_THRESHOLD_CENTS", defaultBalanceThresholdCents)
	v.SetDefault("PREVIEW_CACHE_SIZE", defaultPreviewCacheSize)
	v.SetDefault("RATE_LIMIT_RPM", defaultRateLimitRPM)
	mergeEnvFiles(v, envFiles...)
	return v
}

func load(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	threshold := v.GetInt64("BALANCE_THRESHOLD_CENTS")
	if threshold <= 0 {
		threshold = defaultBalanceThresholdCents
	}
	cacheSize := v.GetInt("PREVIEW_CACHE_SIZE")
	if cacheSize <= 0 {
		cacheSize = defaultPreviewCacheSize
	}
	rpm := v.GetInt("RATE_LIMIT_RPM")
	if rpm < 0 {
		rpm = 0
	}

	return Config{
		Port:                  v.GetString("PORT"),
		CORSAllowOrigin:       splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		ObjectStoreType:       normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:         v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:             strings.TrimSpace(v.GetString("AWS_REGION")),
		S3Bucket:              strings.TrimSpace(v.GetString("S3_BUCKET")),
		S3Prefix:              strings.TrimSpace(v.GetString("S3_PREFIX")),
		SSEKMSKeyID:           strings.TrimSpace(v.GetString("SSE_KMS_KEY_ID")),
		DatabaseURL:           dbURL,
		Env:                   env,
		ReportQueueURL:        strings.TrimSpace(v.GetString("REPORT_QUEUE_URL")),
		AdminEmails:           lowerAll(splitAndTrim(v.GetString("ADMIN_EMAILS"))),
		StripeWebhookSecret:   strings.TrimSpace(v.GetString("STRIPE_WEBHOOK_SECRET")),
		BalanceThresholdCents: threshold,
		PreviewCacheSize:      cacheSize,
		RateLimitRPM:          rpm,
	}
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
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

func lowerAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
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
