package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"QBDTestTool"`
		Host string `envconfig:"HOST" default:"127.0.0.1"`
		Port int    `envconfig:"PORT" default:"8123"`
	}

	Session struct {
		// Path to the session file. Empty means the default location
		// under the user's home directory.
		Path     string `envconfig:"SESSION_PATH" default:""`
		AutoLoad bool   `envconfig:"SESSION_AUTO_LOAD" default:"false"`
	}

	Bridge struct {
		URL     string        `envconfig:"BRIDGE_URL" default:"http://127.0.0.1:8477"`
		Token   string        `envconfig:"BRIDGE_TOKEN"`
		Timeout time.Duration `envconfig:"BRIDGE_TIMEOUT" default:"30s"`
	}

	Monitor struct {
		Interval               time.Duration `envconfig:"MONITOR_INTERVAL" default:"30s"`
		ExpectedDepositAccount string        `envconfig:"EXPECTED_DEPOSIT_ACCOUNT"`
	}
}

// SessionPath resolves the configured session file path, defaulting to
// ~/.qbd_test_tool/session_data.json.
func (c *Config) SessionPath() (string, error) {
	if c.Session.Path != "" {
		return c.Session.Path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, ".qbd_test_tool", "session_data.json"), nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
