package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/user/roadwatch/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	AdminAddr  string `env:"ADMIN_ADDR" envDefault:":9091"`

	PostgresURL string        `env:"POSTGRES_URL,required"`
	RedisAddr   string        `env:"REDIS_ADDR"` // optional; empty disables the snapshot cache
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"30s"`

	// SourceBaseURL points at a remote device backend. When empty the local
	// store is the listing source.
	SourceBaseURL string        `env:"SOURCE_BASE_URL"`
	SourceTimeout time.Duration `env:"SOURCE_TIMEOUT" envDefault:"5s"`
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"1m"`

	UploadDir        string `env:"UPLOAD_DIR" envDefault:"uploads"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"8"`
	PredictionLabels string `env:"PREDICTION_LABELS" envDefault:"Asphalt bad,Paved bad,Unpaved bad,Rain"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	JournalDir         string `env:"JOURNAL_DIR" envDefault:"journal"`
	JournalSegmentSize int64  `env:"JOURNAL_SEGMENT_SIZE_BYTES" envDefault:"1048576"`   // 1MB
	JournalMaxDiskSize int64  `env:"JOURNAL_MAX_DISK_SIZE_BYTES" envDefault:"67108864"` // 64MB
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Vocabulary builds the prediction vocabulary from the configured labels.
func (c *Config) Vocabulary() *domain.Vocabulary {
	return domain.ParseVocabulary(c.PredictionLabels)
}
