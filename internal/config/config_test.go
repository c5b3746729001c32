package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"ENV", "NODE_ENV", "PORT", "SESSION_TTL", "OTP_TTL", "RESET_TOKEN_TTL", "ALLOW_DEFAULT_RESET"} {
		t.Setenv(k, "")
	}
	t.Setenv("FRONTEND_URL", "https://iptv.example/")
	t.Setenv("SITE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5000" || cfg.Env != "development" || cfg.IsProduction() {
		t.Fatalf("unexpected defaults: port=%q env=%q", cfg.Port, cfg.Env)
	}
	if cfg.SessionTTL != 7*24*time.Hour || cfg.OTPTTL != 10*time.Minute || cfg.ResetTokenTTL != time.Hour {
		t.Fatalf("ttls: %v %v %v", cfg.SessionTTL, cfg.OTPTTL, cfg.ResetTokenTTL)
	}
	if cfg.FrontendURL != "https://iptv.example" || cfg.SiteURL != "https://iptv.example" {
		t.Fatalf("urls: %q %q", cfg.FrontendURL, cfg.SiteURL)
	}
	if cfg.AllowDefaultReset {
		t.Fatal("default-credential reset must be opt-in")
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("OTP_TTL", "ten minutes")
	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "OTP_TTL") {
		t.Fatalf("want OTP_TTL error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{DatabaseURL: "postgres://x", JWTSecret: "s", SMTPHost: "h", SMTPUser: "u"}
	}

	if w, err := base().Validate(); err != nil || len(w) != 0 {
		t.Fatalf("complete config: %v %v", w, err)
	}

	c := base()
	c.DatabaseURL = ""
	if _, err := c.Validate(); err == nil {
		t.Fatal("missing database accepted")
	}

	c = base()
	c.JWTSecret = ""
	if w, err := c.Validate(); err != nil || len(w) != 1 {
		t.Fatalf("dev without secret: %v %v", w, err)
	}
	c.Env = "production"
	if _, err := c.Validate(); err == nil {
		t.Fatal("production without JWT_SECRET accepted")
	}

	c = base()
	c.S3Endpoint = "http://minio:9000"
	if _, err := c.Validate(); err == nil {
		t.Fatal("S3 without credentials accepted")
	}
}

func TestDSN(t *testing.T) {
	c := &Config{DbUser: "u", DbPass: "p@ss", DbHost: "db", DbPort: "5432", DbName: "iptv", DbSSLMode: "disable"}
	if got := c.GetDSN(); got != "postgres://u:p%40ss@db:5432/iptv?sslmode=disable" {
		t.Fatalf("dsn %q", got)
	}
	if strings.Contains(c.GetDSNSafe(), "p@ss") {
		t.Fatal("safe dsn leaks the password")
	}
}
