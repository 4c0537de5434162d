package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env string `env:"ENV" default:"dev"`

	Port string `env:"PORT" default:"8080"`

	StateBackend string `env:"STATE_BACKEND" default:"memory"` // memory | mysql | postgres
	DSN          string `env:"DB_DSN" default:""`              // required for sql backends

	// Optional: run migrations at startup (dev convenience)
	RunMigrations bool `env:"RUN_MIGRATIONS" default:"false"`

	Shopify ShopifyConfig

	TaxonomyFile string `env:"TAXONOMY_FILE" default:""` // empty uses the embedded table

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"` // text | json
	LogFile   string `env:"LOG_FILE" default:""`

	WorkerPollEvery time.Duration `env:"WORKER_POLL_EVERY" default:"5s"`

	JWTPublicKeyPEM string `env:"JWT_PUBLIC_KEY_PEM" default:""`
}

// ShopifyConfig holds the upstream catalog credentials and transport limits.
type ShopifyConfig struct {
	StoreDomain     string        `env:"SHOPIFY_STORE_DOMAIN"`
	StorefrontToken string        `env:"SHOPIFY_STOREFRONT_TOKEN"`
	APIVersion      string        `env:"SHOPIFY_API_VERSION" default:"2024-01"`
	PageTimeout     time.Duration `env:"SHOPIFY_PAGE_TIMEOUT" default:"30s"`
	MaxRetries      int           `env:"SHOPIFY_MAX_RETRIES" default:"3"`
	RequestsPerSec  float64       `env:"SHOPIFY_REQUESTS_PER_SECOND" default:"2"`
}

// Complete reports whether both credentials are present.
func (c ShopifyConfig) Complete() bool {
	return strings.TrimSpace(c.StoreDomain) != "" && strings.TrimSpace(c.StorefrontToken) != ""
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:           getenv("ENV", "dev"),
		Port:          getenv("PORT", "8080"),
		StateBackend:  getenv("STATE_BACKEND", "memory"),
		DSN:           getenv("DB_DSN", ""),
		RunMigrations: getenv("RUN_MIGRATIONS", "false") == "true",

		Shopify: ShopifyConfig{
			StoreDomain:     getenv("SHOPIFY_STORE_DOMAIN", ""),
			StorefrontToken: getenv("SHOPIFY_STOREFRONT_TOKEN", ""),
			APIVersion:      getenv("SHOPIFY_API_VERSION", "2024-01"),
			PageTimeout:     getDuration("SHOPIFY_PAGE_TIMEOUT", 30*time.Second),
			MaxRetries:      getInt("SHOPIFY_MAX_RETRIES", 3),
			RequestsPerSec:  getFloat("SHOPIFY_REQUESTS_PER_SECOND", 2),
		},

		TaxonomyFile: getenv("TAXONOMY_FILE", ""),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
		LogFile:   getenv("LOG_FILE", ""),

		WorkerPollEvery: getDuration("WORKER_POLL_EVERY", 5*time.Second),

		JWTPublicKeyPEM: getenv("JWT_PUBLIC_KEY_PEM", ""),
	}
	return cfg
}

func getenv(key string, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getenv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getenv(key, ""), 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}
