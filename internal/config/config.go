package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"leasehold-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Platform  PlatformConfig  `yaml:"platform"`
	Chain     ChainConfig     `yaml:"chain"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Assets    AssetsConfig    `yaml:"assets"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the registry backend
type StorageConfig struct {
	Type string `yaml:"type"` // "memory" or "postgres"
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

// JWTConfig contains token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PlatformConfig seeds the platform state and names the fixed identities
type PlatformConfig struct {
	ServiceFeeBps      uint64 `yaml:"service_fee_bps"`
	MinimumLeaseBlocks uint64 `yaml:"minimum_lease_blocks"`
	MaximumLeaseBlocks uint64 `yaml:"maximum_lease_blocks"`
	CustodyAccount     string `yaml:"custody_account"`
	AdminAccount       string `yaml:"admin_account"`
	AdminPasswordHash  string `yaml:"admin_password_hash"` // bcrypt
}

// ChainConfig derives the logical block clock
type ChainConfig struct {
	GenesisUnix      int64 `yaml:"genesis_unix"`
	BlockTimeSeconds int   `yaml:"block_time_seconds"`
}

// LedgerConfig configures the value-transfer gateway
type LedgerConfig struct {
	Type         string            `yaml:"type"` // "memory"
	SeedBalances map[string]uint64 `yaml:"seed_balances"`
}

// AssetsConfig configures the optional ownership registry. When Type is
// "none" the platform trusts posters, matching the original behavior.
type AssetsConfig struct {
	Type   string            `yaml:"type"`   // "none" or "static"
	Owners map[string]string `yaml:"owners"` // asset key ("contract/id") -> owner
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SweepExpiredLeases string `yaml:"sweep_expired_leases"`
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

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Platform admin credential
	if val := os.Getenv("ADMIN_PASSWORD_HASH"); val != "" {
		c.Platform.AdminPasswordHash = val
	}

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

	// Storage validation
	if c.Storage.Type == "" {
		c.Storage.Type = "memory"
	}
	if c.Storage.Type != "memory" && c.Storage.Type != "postgres" {
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Storage.Type == "postgres" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Platform validation
	if c.Platform.ServiceFeeBps > domain.MaxServiceFeeBps {
		return fmt.Errorf("service fee exceeds %d bps: %d", domain.MaxServiceFeeBps, c.Platform.ServiceFeeBps)
	}
	if c.Platform.MinimumLeaseBlocks == 0 {
		c.Platform.MinimumLeaseBlocks = 1
	}
	if c.Platform.MaximumLeaseBlocks == 0 {
		c.Platform.MaximumLeaseBlocks = 52560 // roughly one year of 10-minute blocks
	}
	if c.Platform.MinimumLeaseBlocks >= c.Platform.MaximumLeaseBlocks {
		return fmt.Errorf("minimum lease blocks (%d) must be below maximum (%d)", c.Platform.MinimumLeaseBlocks, c.Platform.MaximumLeaseBlocks)
	}
	if c.Platform.CustodyAccount == "" {
		return fmt.Errorf("custody account is required")
	}
	if c.Platform.AdminAccount == "" {
		return fmt.Errorf("admin account is required")
	}
	if c.Platform.AdminPasswordHash == "" {
		return fmt.Errorf("admin password hash is required")
	}

	// Chain defaults
	if c.Chain.BlockTimeSeconds <= 0 {
		c.Chain.BlockTimeSeconds = 600
	}

	// Ledger validation
	if c.Ledger.Type == "" {
		c.Ledger.Type = "memory"
	}
	if c.Ledger.Type != "memory" {
		return fmt.Errorf("unsupported ledger type: %s", c.Ledger.Type)
	}

	// Assets validation
	if c.Assets.Type == "" {
		c.Assets.Type = "none"
	}
	if c.Assets.Type != "none" && c.Assets.Type != "static" {
		return fmt.Errorf("unsupported assets registry type: %s", c.Assets.Type)
	}

	// Scheduler defaults
	if c.Scheduler.SweepExpiredLeases == "" {
		c.Scheduler.SweepExpiredLeases = "0 * * * * *" // every minute
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
