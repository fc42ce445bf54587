package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	SendGrid    SendGridConfig    `yaml:"sendgrid"`
	JWT         JWTConfig         `yaml:"jwt"`
	Log         LogConfig         `yaml:"log"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Enforcement EnforcementConfig `yaml:"enforcement"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SendGridConfig contains notification dispatch settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`

	// Dynamic template ids owned by the notification platform
	TemplateMembershipApproved string `yaml:"template_membership_approved"`
	TemplateMembershipRejected string `yaml:"template_membership_rejected"`
	TemplateEnforcementWarning string `yaml:"template_enforcement_warning"`
	TemplateAccountDisabled    string `yaml:"template_account_disabled"`
}

// JWTConfig contains token validation settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	EnforcementCycle string `yaml:"enforcement_cycle"`
}

// EnforcementConfig contains the membership enforcement policy
type EnforcementConfig struct {
	WarningAfterDays     int    `yaml:"warning_after_days"`
	DisableAfterDays     int    `yaml:"disable_after_days"`
	VoterMinVerifiedDays int    `yaml:"voter_min_verified_days"`
	SupportEmail         string `yaml:"support_email"`
	ReactivationURL      string `yaml:"reactivation_url"`
	OperationalTokenHash string `yaml:"operational_token_hash"` // bcrypt hash of the shared secret
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Enforcement
	if val := os.Getenv("ENFORCEMENT_TOKEN_HASH"); val != "" {
		c.Enforcement.OperationalTokenHash = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// SendGrid validation
	if c.SendGrid.APIKey == "" {
		return fmt.Errorf("sendgrid API key is required")
	}
	if c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from address is required")
	}

	// Enforcement defaults
	if c.Enforcement.WarningAfterDays == 0 {
		c.Enforcement.WarningAfterDays = 5
	}
	if c.Enforcement.DisableAfterDays == 0 {
		c.Enforcement.DisableAfterDays = 7
	}
	if c.Enforcement.VoterMinVerifiedDays == 0 {
		c.Enforcement.VoterMinVerifiedDays = 7
	}
	if c.Enforcement.DisableAfterDays < c.Enforcement.WarningAfterDays {
		return fmt.Errorf("disable_after_days (%d) must not precede warning_after_days (%d)",
			c.Enforcement.DisableAfterDays, c.Enforcement.WarningAfterDays)
	}
	if c.Enforcement.OperationalTokenHash == "" {
		return fmt.Errorf("enforcement operational token hash is required")
	}

	// Scheduler defaults
	if c.Scheduler.EnforcementCycle == "" {
		c.Scheduler.EnforcementCycle = "0 0 6 * * *" // 6 AM UTC daily
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
