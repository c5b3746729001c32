package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	DbHost      string
	DbPort      string
	DbUser      string
	DbPass      string
	DbName      string
	DbSSLMode   string
	AutoMigrate bool

	JWTSecret  string
	SessionTTL time.Duration

	Log      string
	LogLevel string
	Env      string // development|production

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	FrontendURL string
	SiteURL     string

	OTPTTL        time.Duration
	ResetTokenTTL time.Duration

	DefaultAdminEmail    string
	DefaultAdminPassword string
	AllowDefaultReset    bool

	RedisURL     string
	APIRateLimit int // requests per minute per IP, 0 disables
	TrustProxy   bool

	UploadDir   string
	UploadMaxMB int64

	S3Endpoint       string
	S3Bucket         string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
	S3PublicURL      string
	S3ForcePathStyle bool

	OTelEndpoint string
	ServiceName  string
}

// LoadConfig reads .env (if present) and the process environment and applies defaults.
// It does not log anything so that config has no dependency on logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	env := def(os.Getenv("ENV"), def(os.Getenv("NODE_ENV"), "development"))

	sessionTTL, err := time.ParseDuration(def(os.Getenv("SESSION_TTL"), "168h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	otpTTL, err := time.ParseDuration(def(os.Getenv("OTP_TTL"), "10m"))
	if err != nil {
		return nil, fmt.Errorf("OTP_TTL: %w", err)
	}
	resetTTL, err := time.ParseDuration(def(os.Getenv("RESET_TOKEN_TTL"), "1h"))
	if err != nil {
		return nil, fmt.Errorf("RESET_TOKEN_TTL: %w", err)
	}
	apiLimit, err := strconv.Atoi(def(os.Getenv("RATE_LIMIT_API"), "300"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_API: %w", err)
	}
	uploadMax, err := strconv.ParseInt(def(os.Getenv("UPLOAD_MAX_MB"), "5"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("UPLOAD_MAX_MB: %w", err)
	}

	cfg := &Config{
		Port:        def(os.Getenv("PORT"), "5000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DbHost:      os.Getenv("DB_HOST"),
		DbPort:      def(os.Getenv("DB_PORT"), "5432"),
		DbUser:      os.Getenv("DB_USER"),
		DbPass:      os.Getenv("DB_PASSWORD"),
		DbName:      os.Getenv("DB_NAME"),
		DbSSLMode:   def(os.Getenv("DB_SSLMODE"), "disable"),
		AutoMigrate: parseBool(os.Getenv("AUTO_MIGRATE"), true),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: sessionTTL,

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(env),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     def(os.Getenv("MAIL_FROM"), os.Getenv("SMTP_USER")),

		FrontendURL: strings.TrimRight(def(os.Getenv("FRONTEND_URL"), "http://localhost:3000"), "/"),
		SiteURL:     strings.TrimRight(def(os.Getenv("SITE_URL"), os.Getenv("FRONTEND_URL")), "/"),

		OTPTTL:        otpTTL,
		ResetTokenTTL: resetTTL,

		DefaultAdminEmail:    strings.ToLower(def(os.Getenv("DEFAULT_ADMIN_EMAIL"), "admin@site.com")),
		DefaultAdminPassword: def(os.Getenv("DEFAULT_ADMIN_PASSWORD"), "admin123"),
		AllowDefaultReset:    parseBool(os.Getenv("ALLOW_DEFAULT_RESET"), false),

		RedisURL:     os.Getenv("REDIS_URL"),
		APIRateLimit: apiLimit,
		TrustProxy:   parseBool(os.Getenv("TRUST_PROXY"), false),

		UploadDir:   def(os.Getenv("UPLOAD_DIR"), "uploads"),
		UploadMaxMB: uploadMax,

		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Region:         def(os.Getenv("S3_REGION"), "us-east-1"),
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:      strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),
		S3ForcePathStyle: parseBool(os.Getenv("S3_FORCE_PATH_STYLE"), true),

		OTelEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  def(os.Getenv("SERVICE_NAME"), "iptvsite-api"),
	}

	if cfg.SiteURL == "" {
		cfg.SiteURL = cfg.FrontendURL
	}

	return cfg, nil
}

func parseBool(v string, d bool) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d
	}
	return b
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// S3Enabled reports whether uploads go to object storage instead of UploadDir.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}

// Validate returns warnings and a fatal error when the service cannot run.
func (c *Config) Validate() (warnings []string, err error) {
	if c.DatabaseURL == "" && (c.DbHost == "" || c.DbUser == "" || c.DbName == "") {
		return nil, fmt.Errorf("incomplete DB config (DATABASE_URL or DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		if c.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured, password recovery emails will fail")
	}

	if c.AllowDefaultReset {
		warnings = append(warnings, "ALLOW_DEFAULT_RESET is enabled")
	}

	if c.S3Endpoint != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		return warnings, fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}

	return warnings, nil
}

// GetDSN returns the full DSN including the password.
func (c *Config) GetDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DbUser, c.DbPass),
		Host:     net.JoinHostPort(c.DbHost, c.DbPort),
		Path:     "/" + c.DbName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DbSSLMode),
	}
	return u.String()
}

// GetDSNSafe returns a DSN suitable for logs.
func (c *Config) GetDSNSafe() string {
	if c.DatabaseURL != "" {
		return "DATABASE_URL(***)"
	}
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
