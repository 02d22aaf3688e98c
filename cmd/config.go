package cmd

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	DBDriver          string        `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost            string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort            string        `envconfig:"DB_PORT" default:"5432"`
	DBUser            string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword        string        `envconfig:"DB_PASSWORD"`
	DBName            string        `envconfig:"DB_NAME" default:"fooddispatch"`
	DBSslMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBSQLitePath      string        `envconfig:"DB_SQLITE_PATH" default:"fooddispatch.db"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	DBAutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	// RedisURL enables the geocoding cache when set.
	RedisURL string `envconfig:"REDIS_URL"`

	GeocoderAPIKey   string        `envconfig:"GEOCODER_API_KEY"`
	GeocoderBaseURL  string        `envconfig:"GEOCODER_BASE_URL"`
	GeocoderTimeout  time.Duration `envconfig:"GEOCODER_TIMEOUT" default:"5s"`
	GeocoderCacheTTL time.Duration `envconfig:"GEOCODER_CACHE_TTL" default:"24h"`

	// RabbitMQURL enables order event publishing when set.
	RabbitMQURL      string `envconfig:"RABBITMQ_URL"`
	RabbitMQExchange string `envconfig:"RABBITMQ_EXCHANGE" default:"orders_events"`

	// JWTSecret verifies bearer tokens; the HTTP API refuses to start without it.
	JWTSecret string `envconfig:"JWT_SECRET"`

	EngagementWindow time.Duration `envconfig:"ENGAGEMENT_WINDOW" default:"15m"`

	JobSchedule    string        `envconfig:"JOB_SCHEDULE" default:"* * * * * *"`
	JobBatchSize   int           `envconfig:"JOB_BATCH_SIZE" default:"20"`
	JobMaxAttempts int           `envconfig:"JOB_MAX_ATTEMPTS" default:"5"`
	JobLease       time.Duration `envconfig:"JOB_LEASE" default:"1m"`
	JobBackoff     time.Duration `envconfig:"JOB_BACKOFF" default:"5s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// LoadConfig reads an optional .env file and then the environment, which
// takes precedence.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if cfg.EngagementWindow <= 0 {
		return Config{}, fmt.Errorf("ENGAGEMENT_WINDOW must be positive, got %s", cfg.EngagementWindow)
	}
	return cfg, nil
}

// DSN builds the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBSQLitePath
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return u.String()
}
