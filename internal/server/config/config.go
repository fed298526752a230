// Package config handles configuration for the server: built-in defaults,
// an optional JSON file, the process environment (plus an optional .env
// file) and command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the logistics server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP server.
//   - DatabaseURL: postgres:// URL or sqlite:// path of the primary store.
//   - DBPoolRecycle: maximum lifetime of a pooled connection.
//   - SessionSecret: HMAC key signing session cookies. Override in prod.
//   - SessionTTL: lifetime of a login session.
//   - LoginPath: where unauthenticated browser requests are redirected.
//   - TrustProxy: honour X-Forwarded-* headers set by exactly one reverse proxy.
//   - BootstrapAdmin*: optional administrator created by the seeder.
//   - S3*: object storage for delivery partner documents.
type Config struct {
	ListenAddr    string        `env:"LISTEN_ADDR"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	DBPoolRecycle time.Duration `env:"DB_POOL_RECYCLE"`
	LogLevel      string        `env:"LOG_LEVEL"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL"`
	SecureCookies bool          `env:"SECURE_COOKIES"`
	LoginPath     string        `env:"LOGIN_PATH"`
	TrustProxy    bool          `env:"TRUST_PROXY"`

	SiteName    string `env:"SITE_NAME"`
	CompanyName string `env:"COMPANY_NAME"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	LoginRatePerSecond float64  `env:"LOGIN_RATE_PER_SECOND"`
	LoginBurst         int      `env:"LOGIN_BURST"`

	BootstrapAdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	BootstrapAdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`

	S3RootUser     string `env:"S3_ROOT_USER"`
	S3RootPassword string `env:"S3_ROOT_PASSWORD"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the session secret and S3 credentials are not fit for production.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":5000"
	c.DatabaseURL = "sqlite:///logistics.db"
	c.DBPoolRecycle = 300 * time.Second
	c.LogLevel = "debug"

	c.SessionSecret = "logistics-secret-key-2024"
	c.SessionTTL = 24 * time.Hour
	c.SecureCookies = false
	c.LoginPath = "/admin/login"
	c.TrustProxy = false

	c.SiteName = "GotoFast Logistics"
	c.CompanyName = "GotoFast Logistics Pvt Ltd"

	c.CORSAllowedOrigins = nil
	c.LoginRatePerSecond = 1
	c.LoginBurst = 5

	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "partner-documents"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then the environment, then command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
