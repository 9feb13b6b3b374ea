package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for ProjectHub.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
	Security SecurityConfig `yaml:"security"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT          JWTConfig          `yaml:"jwt"`
	Password     PasswordConfig     `yaml:"password"`
	Registration RegistrationConfig `yaml:"registration"`
}

// JWTConfig contains access token settings.
type JWTConfig struct {
	Secret         string `yaml:"secret"`
	Algorithm      string `yaml:"algorithm"`
	AccessTokenTTL int    `yaml:"access_token_ttl"` // minutes
}

// PasswordConfig selects the password hashing algorithm and its work factor.
// Changing the algorithm only affects new hashes; existing hashes keep verifying.
type PasswordConfig struct {
	Algorithm   string `yaml:"algorithm"`
	Memory      uint32 `yaml:"memory"` // KiB, argon2id only
	Iterations  uint32 `yaml:"iterations"`
	Parallelism uint8  `yaml:"parallelism"`
	BcryptCost  int    `yaml:"bcrypt_cost"`
}

// RegistrationConfig controls self-service account creation.
type RegistrationConfig struct {
	// AllowAdmin lets /auth/register create admin accounts.
	// When false, the first boot seeds a single admin instead.
	AllowAdmin bool `yaml:"allow_admin"`
}

// Supported values for the security section.
var (
	SupportedJWTAlgorithms      = []string{"HS256", "HS384", "HS512"}
	SupportedPasswordAlgorithms = []string{"argon2id", "bcrypt"}
)

// Bcrypt cost bounds, mirroring golang.org/x/crypto/bcrypt.
const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

const (
	// maxAccessTokenTTL is one week, in minutes.
	maxAccessTokenTTL = 7 * 24 * 60

	// maxArgon2Memory is 1 GiB, in KiB. Each concurrent login allocates this much.
	maxArgon2Memory = 1024 * 1024
)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PROJECTHUB_SECTION_KEY
// For example: PROJECTHUB_DATABASE_PATH, PROJECTHUB_JWT_SECRET
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/projecthub.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				Algorithm:      "HS256",
				AccessTokenTTL: 30,
			},
			Password: PasswordConfig{
				Algorithm:   "argon2id",
				Memory:      64 * 1024,
				Iterations:  3,
				Parallelism: 1,
				BcryptCost:  12,
			},
			Registration: RegistrationConfig{
				AllowAdmin: true,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PROJECTHUB_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("PROJECTHUB_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("PROJECTHUB_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PROJECTHUB_API_PORT: %w", err)
		}
		cfg.API.Port = port
	}

	if v := os.Getenv("PROJECTHUB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// The signing secret should only ever come from the environment in production.
	if v := os.Getenv("PROJECTHUB_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
	if v := os.Getenv("PROJECTHUB_JWT_ALGORITHM"); v != "" {
		cfg.Security.JWT.Algorithm = v
	}
	if v := os.Getenv("PROJECTHUB_ACCESS_TOKEN_TTL"); v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PROJECTHUB_ACCESS_TOKEN_TTL: %w", err)
		}
		cfg.Security.JWT.AccessTokenTTL = ttl
	}

	return nil
}

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Anything shorter than 32 bytes is brute-forceable for HMAC signing.
	const minJWTSecretLength = 32
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set PROJECTHUB_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}

	if !contains(SupportedJWTAlgorithms, c.Security.JWT.Algorithm) {
		errs = append(errs, fmt.Sprintf("security.jwt.algorithm must be one of %s", strings.Join(SupportedJWTAlgorithms, ", ")))
	}

	if c.Security.JWT.AccessTokenTTL <= 0 || c.Security.JWT.AccessTokenTTL > maxAccessTokenTTL {
		errs = append(errs, fmt.Sprintf("security.jwt.access_token_ttl must be between 1 and %d minutes", maxAccessTokenTTL))
	}

	pw := c.Security.Password
	switch pw.Algorithm {
	case "argon2id":
		if pw.Memory == 0 || pw.Iterations == 0 || pw.Parallelism == 0 {
			errs = append(errs, "security.password memory, iterations and parallelism must be positive for argon2id")
		}
		if pw.Memory > maxArgon2Memory {
			errs = append(errs, fmt.Sprintf("security.password.memory must be at most %d KiB", maxArgon2Memory))
		}
	case "bcrypt":
		if pw.BcryptCost < minBcryptCost || pw.BcryptCost > maxBcryptCost {
			errs = append(errs, "security.password.bcrypt_cost must be between 4 and 31")
		}
	default:
		errs = append(errs, fmt.Sprintf("security.password.algorithm must be one of %s", strings.Join(SupportedPasswordAlgorithms, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// AccessTokenTTL returns the configured token lifetime as a Duration.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Security.JWT.AccessTokenTTL) * time.Minute
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
