package config

import (
	"encoding/json"
	"os"

	"github.com/gotofast/logistics/internal/flagx"
	"github.com/gotofast/logistics/internal/timex"
)

// JsonConfig mirrors Config for unmarshalling. Durations go through
// timex.Duration so both "300s" and integer nanoseconds are accepted.
// Fields absent from the file keep their current value.
type JsonConfig struct {
	ListenAddr    *string         `json:"listen_addr"`
	DatabaseURL   *string         `json:"database_url"`
	DBPoolRecycle *timex.Duration `json:"db_pool_recycle"`
	LogLevel      *string         `json:"log_level"`

	SessionSecret *string         `json:"session_secret"`
	SessionTTL    *timex.Duration `json:"session_ttl"`
	SecureCookies *bool           `json:"secure_cookies"`
	LoginPath     *string         `json:"login_path"`
	TrustProxy    *bool           `json:"trust_proxy"`

	SiteName    *string `json:"site_name"`
	CompanyName *string `json:"company_name"`

	CORSAllowedOrigins []string `json:"cors_allowed_origins"`
	LoginRatePerSecond *float64 `json:"login_rate_per_second"`
	LoginBurst         *int     `json:"login_burst"`

	BootstrapAdminUsername *string `json:"bootstrap_admin_username"`
	BootstrapAdminPassword *string `json:"bootstrap_admin_password"`
	BootstrapAdminEmail    *string `json:"bootstrap_admin_email"`

	S3RootUser     *string `json:"s3_root_user"`
	S3RootPassword *string `json:"s3_root_password"`
	S3Bucket       *string `json:"s3_bucket"`
	S3Region       *string `json:"s3_region"`
	S3BaseEndpoint *string `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config (if any) into config.
// An unreadable file or invalid JSON panics: a broken config file should
// stop the server before it opens the database.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseURL, c.DatabaseURL)
	if c.DBPoolRecycle != nil {
		config.DBPoolRecycle = c.DBPoolRecycle.Duration
	}
	setString(&config.LogLevel, c.LogLevel)

	setString(&config.SessionSecret, c.SessionSecret)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.SecureCookies != nil {
		config.SecureCookies = *c.SecureCookies
	}
	setString(&config.LoginPath, c.LoginPath)
	if c.TrustProxy != nil {
		config.TrustProxy = *c.TrustProxy
	}

	setString(&config.SiteName, c.SiteName)
	setString(&config.CompanyName, c.CompanyName)

	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.LoginRatePerSecond != nil {
		config.LoginRatePerSecond = *c.LoginRatePerSecond
	}
	if c.LoginBurst != nil {
		config.LoginBurst = *c.LoginBurst
	}

	setString(&config.BootstrapAdminUsername, c.BootstrapAdminUsername)
	setString(&config.BootstrapAdminPassword, c.BootstrapAdminPassword)
	setString(&config.BootstrapAdminEmail, c.BootstrapAdminEmail)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
