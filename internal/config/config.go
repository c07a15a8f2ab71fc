package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Data
		Audit
		Backup
		Auth
		UI
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Data struct {
		Dir string // Directory holding the JSON snapshot files
	}
	Audit struct {
		Enabled       bool
		Dir           string
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Backup struct {
		Enabled  bool
		Dir      string
		Schedule string // Cron format: "0 * * * *" = hourly
		Keep     int    // Number of backup sets to retain
	}
	Auth struct {
		AdminUsername   string
		AdminPassword   string
		BcryptCost      int
		SessionLifetime time.Duration
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	UI struct {
		TemplatesPath string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("templates_path", "./templates")

	// Audit trail defaults
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)

	// Snapshot backup defaults
	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_dir", "./backups")
	v.SetDefault("backup_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("backup_keep", 24)

	// Auth defaults. The admin credential is a placeholder check, not
	// an account system; override it in any real deployment.
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", DefaultAdminPassword)
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_secure_cookies", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Data: Data{
			Dir: v.GetString("DATA_DIR"),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Backup: Backup{
			Enabled:  v.GetBool("BACKUP_ENABLED"),
			Dir:      v.GetString("BACKUP_DIR"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Keep:     v.GetInt("BACKUP_KEEP"),
		},
		Auth: Auth{
			AdminUsername:   v.GetString("ADMIN_USERNAME"),
			AdminPassword:   v.GetString("ADMIN_PASSWORD"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
		},
	}
}
