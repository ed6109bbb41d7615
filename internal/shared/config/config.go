package config

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// Config holds all configuration for the traveltix service
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ServiceName    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxHeaderBytes int
	// TrustedProxies may set X-Forwarded-For; empty trusts no proxy
	TrustedProxies []string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Ticket    TicketConfig
	Kafka     KafkaConfig
	Telemetry TelemetryConfig
	Metrics   MetricsConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// AuthzCacheTTL bounds how long an ownership/admin lookup is reused
	AuthzCacheTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	JWTExpiresIn     time.Duration
	RefreshExpiresIn time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	ScanRequests    int           `json:"scan_requests"`
	HealthRequests  int           `json:"health_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Code schemes accepted by TICKET_CODE_SCHEME
const (
	CodeSchemeHMAC   = "hmac"
	CodeSchemeLegacy = "legacy"
)

// TicketConfig holds QR ticket issuance and verification settings
type TicketConfig struct {
	Secret string
	// SecretDerived is set when Secret was derived from the JWT secret
	SecretDerived     bool
	CodeScheme        string
	CodeBucket        time.Duration
	CodeMaxAge        time.Duration
	VerifyTimeout     time.Duration
	AcceptLegacyCodes bool
	// LegacyCodeBucket is the rounding used by tickets printed before HMAC codes; 0 keeps raw millis
	LegacyCodeBucket time.Duration
}

// KafkaConfig holds the ticket event producer configuration
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	TicketTopic string
	ClientID    string
	// QueueSize bounds events waiting for the broker; overflow is dropped
	QueueSize int
}

// TelemetryConfig holds OpenTelemetry exporter settings
type TelemetryConfig struct {
	OTLPEndpoint string
	Insecure     bool
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "traveltix"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB
		TrustedProxies: getStringSliceEnv("TRUSTED_PROXIES", nil),

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "traveltix_db"),
			User:     getEnv("DB_USER", "traveltix_user"),
			Password: getEnv("DB_PASSWORD", "traveltix_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getIntEnv("REDIS_DB", 0),
			AuthzCacheTTL: getDurationEnv("REDIS_AUTHZ_CACHE_TTL", 5*time.Minute),
		},

		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
			JWTExpiresIn:     getDurationEnvSeconds("JWT_EXPIRES_IN", 15*time.Minute),
			RefreshExpiresIn: getDurationEnvSeconds("JWT_REFRESH_EXPIRES_IN", 24*time.Hour),
		},

		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			AuthRequests:    getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 10),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 20),
			ScanRequests:    getIntEnv("RATE_LIMIT_SCAN_REQUESTS", 120),
			HealthRequests:  getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 300),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Ticket: TicketConfig{
			Secret:            getEnv("TICKET_SECRET", ""),
			CodeScheme:        strings.ToLower(getEnv("TICKET_CODE_SCHEME", CodeSchemeHMAC)),
			CodeBucket:        getDurationEnv("TICKET_CODE_BUCKET", 24*time.Hour),
			CodeMaxAge:        getDurationEnv("TICKET_CODE_MAX_AGE", 0),
			VerifyTimeout:     getDurationEnv("TICKET_VERIFY_TIMEOUT", 5*time.Second),
			AcceptLegacyCodes: getBoolEnv("TICKET_ACCEPT_LEGACY_CODES", false),
			LegacyCodeBucket:  getDurationEnv("TICKET_LEGACY_CODE_BUCKET", 0),
		},

		Kafka: KafkaConfig{
			Enabled:     getBoolEnv("KAFKA_ENABLED", false),
			Brokers:     getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			TicketTopic: getEnv("KAFKA_TICKET_TOPIC", "traveltix.ticket-events"),
			ClientID:    getEnv("KAFKA_CLIENT_ID", "traveltix"),
			QueueSize:   getIntEnv("KAFKA_QUEUE_SIZE", 1024),
		},

		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:     getBoolEnv("OTEL_EXPORTER_OTLP_INSECURE", false),
		},

		Metrics: MetricsConfig{
			Enabled: getBoolEnv("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	// Development derives a ticket key so local scans work without extra
	// setup; the JWT secret itself never signs verification codes
	if cfg.Ticket.Secret == "" && !cfg.IsProduction() && cfg.JWT.Secret != "" {
		cfg.Ticket.Secret = deriveTicketSecret(cfg.JWT.Secret)
		cfg.Ticket.SecretDerived = true
	}

	return cfg
}

// ticketKeyInfo separates the derived ticket key from any other use of the JWT secret
const ticketKeyInfo = "traveltix/ticket-verification-codes/v1"

func deriveTicketSecret(jwtSecret string) string {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(jwtSecret), nil, []byte(ticketKeyInfo)), key); err != nil {
		// 32 bytes is far below the HKDF-SHA256 output limit
		panic(err)
	}
	return hex.EncodeToString(key)
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv accepts Go duration strings ("24h", "5s")
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getDurationEnvSeconds reads a plain integer number of seconds
func getDurationEnvSeconds(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv splits a comma-separated variable, dropping blanks
func getStringSliceEnv(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the listen address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path, e.g. /api/v1
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
