package wiremock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{Host: "localhost", Port: 8080}
	cfg.applyDefaults()

	assert.Equal(t, "http", cfg.Protocol)
	assert.Equal(t, "/__admin", cfg.AdminPath)
	assert.Equal(t, CleanupTest, cfg.CleanupBefore)
	assert.Equal(t, 30, cfg.Timeout)
	assert.True(t, cfg.preserveFileMappings())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing host", func(c *Config) { c.Host = "" }, "host"},
		{"zero port", func(c *Config) { c.Port = 0 }, "port"},
		{"port out of range", func(c *Config) { c.Port = 70000 }, "port"},
		{"bad protocol", func(c *Config) { c.Protocol = "ftp" }, "protocol"},
		{"bad cleanup policy", func(c *Config) { c.CleanupBefore = "sometimes" }, "cleanupBefore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Host: "localhost", Port: 8080}
			cfg.applyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_AdminBaseURL(t *testing.T) {
	cfg := Config{Host: "mock.internal", Port: 8443, Protocol: "https", AdminPath: "/__admin"}
	assert.Equal(t, "https://mock.internal:8443/__admin", cfg.AdminBaseURL())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvHost, "envhost")
	t.Setenv(EnvPort, "9999")
	t.Setenv(EnvProtocol, "https")
	t.Setenv(EnvCleanupBefore, "suite")
	t.Setenv(EnvPreserveFileMappings, "false")
	t.Setenv(EnvTimeout, "5")

	cfg := Config{Host: "localhost", Port: 8080}
	ApplyEnv(&cfg)

	assert.Equal(t, "envhost", cfg.Host)
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "https", cfg.Protocol)
	assert.Equal(t, "suite", cfg.CleanupBefore)
	assert.False(t, cfg.preserveFileMappings())
	assert.Equal(t, 5, cfg.Timeout)
}

func TestApplyEnv_UnsetLeavesValues(t *testing.T) {
	cfg := Config{Host: "localhost", Port: 8080}
	ApplyEnv(&cfg)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
}

func TestApplyEnv_BadIntIgnored(t *testing.T) {
	t.Setenv(EnvPort, "not-a-number")

	cfg := Config{Host: "localhost", Port: 8080}
	ApplyEnv(&cfg)

	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wiremate.yaml")
	data := []byte(`
host: mock.example.com
port: 8080
protocol: https
cleanupBefore: suite
preserveFileMappings: false
timeout: 10
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mock.example.com", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https", cfg.Protocol)
	assert.Equal(t, "suite", cfg.CleanupBefore)
	assert.False(t, cfg.preserveFileMappings())
	assert.Equal(t, 10, cfg.Timeout)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: [unclosed"), 0o644))

	_, err := LoadConfigFile(path)
	require.Error(t, err)
}
