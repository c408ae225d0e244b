package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string

	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
	RPS         float64
	Burst       int

	MaintainStyle bool
	TemplatePath  string

	Bundle BundleConfig
}

type BundleConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		TextModel:     firstNonEmpty(os.Getenv("ILLUSTRIFY_TEXT_MODEL"), "gemini-2.5-flash"),
		ImageModel:    firstNonEmpty(os.Getenv("ILLUSTRIFY_IMAGE_MODEL"), "gemini-2.5-flash-image"),
		MaxAttempts:   envInt("AI_MAX_ATTEMPTS", 5),
		BaseDelay:     time.Duration(envInt("AI_BASE_DELAY_MS", 500)) * time.Millisecond,
		Jitter:        time.Duration(envInt("AI_JITTER_MS", 250)) * time.Millisecond,
		RPS:           envFloat("AI_RPS", 0),
		Burst:         envInt("AI_BURST", 0),
		MaintainStyle: envBool("MAINTAIN_STYLE", true),
		TemplatePath:  strings.TrimSpace(os.Getenv("PROMPT_TEMPLATES")),
		Bundle:        loadBundleConfig(),
	}
	return cfg, nil
}

func loadBundleConfig() BundleConfig {
	endpoint := strings.TrimSpace(os.Getenv("BUNDLE_S3_ENDPOINT"))
	return BundleConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(os.Getenv("BUNDLE_S3_REGION"), "us-east-1"),
		AccessKey: firstNonEmpty(os.Getenv("BUNDLE_S3_ACCESS_KEY"), os.Getenv("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(os.Getenv("BUNDLE_S3_SECRET_KEY"), os.Getenv("MINIO_ROOT_PASSWORD")),
		Bucket:    firstNonEmpty(os.Getenv("BUNDLE_S3_BUCKET"), "illustrify-bundles"),
		UseSSL:    envBool("BUNDLE_S3_USE_SSL", false),
	}
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
