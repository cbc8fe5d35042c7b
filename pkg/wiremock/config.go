package wiremock

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Cleanup policies controlling when BeforeSuite/BeforeTest reset server state.
const (
	CleanupNever = "never"
	CleanupTest  = "test"
	CleanupSuite = "suite"
)

// Defaults applied by Config.applyDefaults.
const (
	DefaultProtocol  = "http"
	DefaultAdminPath = "/__admin"
	DefaultTimeout   = 30 // seconds
)

// Config is the connection and lifecycle configuration for a Module.
// It is validated once at startup and read-only afterwards.
type Config struct {
	// Host of the WireMock server. Required.
	Host string `yaml:"host"`

	// Port of the WireMock server. Required.
	Port int `yaml:"port"`

	// Protocol is "http" or "https". Defaults to "http".
	Protocol string `yaml:"protocol"`

	// AdminPath is the admin API root path. Defaults to "/__admin".
	AdminPath string `yaml:"adminPath"`

	// CleanupBefore controls automatic state cleanup: "never", "test"
	// (before every test, the default) or "suite" (once per suite).
	CleanupBefore string `yaml:"cleanupBefore"`

	// PreserveFileMappings selects the cleanup operation: when true (the
	// default) cleanup restores file-based mappings via mappings/reset;
	// when false it performs a full reset that also clears the journal.
	PreserveFileMappings *bool `yaml:"preserveFileMappings"`

	// Timeout is the per-call HTTP timeout in seconds. Defaults to 30.
	Timeout int `yaml:"timeout"`

	// HTTPClient optionally injects the transport. When nil a default
	// client honoring Timeout is constructed.
	HTTPClient *http.Client `yaml:"-"`

	// Logger receives debug-level operation logs. Defaults to a no-op
	// logger.
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) applyDefaults() {
	if c.Protocol == "" {
		c.Protocol = DefaultProtocol
	}
	if c.AdminPath == "" {
		c.AdminPath = DefaultAdminPath
	}
	if c.CleanupBefore == "" {
		c.CleanupBefore = CleanupTest
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks the configuration, after defaults are applied.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if c.Protocol != "http" && c.Protocol != "https" {
		return fmt.Errorf("protocol %q is not supported (use http or https)", c.Protocol)
	}
	switch c.CleanupBefore {
	case CleanupNever, CleanupTest, CleanupSuite:
	default:
		return fmt.Errorf("cleanupBefore %q is not recognized (use never, test or suite)", c.CleanupBefore)
	}
	return nil
}

// AdminBaseURL returns the admin API root, e.g. "http://localhost:8080/__admin".
func (c *Config) AdminBaseURL() string {
	return fmt.Sprintf("%s://%s:%d%s", c.Protocol, c.Host, c.Port, c.AdminPath)
}

func (c *Config) preserveFileMappings() bool {
	return c.PreserveFileMappings == nil || *c.PreserveFileMappings
}

// Environment variable names recognized by ApplyEnv.
const (
	EnvHost                 = "WIREMOCK_HOST"
	EnvPort                 = "WIREMOCK_PORT"
	EnvProtocol             = "WIREMOCK_PROTOCOL"
	EnvAdminPath            = "WIREMOCK_ADMIN_PATH"
	EnvCleanupBefore        = "WIREMOCK_CLEANUP_BEFORE"
	EnvPreserveFileMappings = "WIREMOCK_PRESERVE_FILE_MAPPINGS"
	EnvTimeout              = "WIREMOCK_TIMEOUT"
)

// ApplyEnv overrides configuration fields from environment variables.
// Only variables that are present are applied; unparseable values are
// ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv(EnvProtocol); v != "" {
		cfg.Protocol = v
	}
	if v := os.Getenv(EnvAdminPath); v != "" {
		cfg.AdminPath = v
	}
	if v := os.Getenv(EnvCleanupBefore); v != "" {
		cfg.CleanupBefore = v
	}
	if v := os.Getenv(EnvPreserveFileMappings); v != "" {
		preserve := v == "true" || v == "1" || v == "yes"
		cfg.PreserveFileMappings = &preserve
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = timeout
		}
	}
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
