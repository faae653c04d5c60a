package app

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "WEBDOJO_"

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config controls runtime behavior for the CLI and the preview server.
type Config struct {
	DataDir    string        `env:"DATA_DIR"`
	LogPath    string        `env:"LOG"`
	Store      string        `env:"STORE"`
	CatalogDir string        `env:"CATALOG_DIR"`
	ASCIIOnly  bool          `env:"ASCII"`
	Redis      RedisConfig   `envPrefix:"REDIS_"`
	Sandbox    SandboxConfig `envPrefix:"SANDBOX_"`
	Preview    PreviewConfig `envPrefix:"PREVIEW_"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
	Prefix   string `env:"PREFIX"`
}

type SandboxConfig struct {
	TimeoutMS    int `env:"TIMEOUT_MS"`
	MaxCallStack int `env:"MAX_CALL_STACK"`
}

type PreviewConfig struct {
	Addr string `env:"ADDR"`
	// Keep is how many rendered previews stay addressable.
	Keep int `env:"KEEP"`
}

func DefaultConfig() Config {
	return Config{
		Store: StoreSQLite,
		Redis: RedisConfig{
			Addr:   "127.0.0.1:6379",
			Prefix: "webdojo",
		},
		Sandbox: SandboxConfig{
			TimeoutMS:    2000,
			MaxCallStack: 1024,
		},
		Preview: PreviewConfig{
			Addr: "127.0.0.1:17321",
			Keep: 16,
		},
	}
}

// LoadEnv overlays WEBDOJO_* variables onto c. Unset variables leave the
// current value alone.
func (c *Config) LoadEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	case "":
		c.Store = StoreSQLite
	default:
		return fmt.Errorf("invalid store %q", c.Store)
	}
	if c.Store == StoreRedis && c.Redis.Addr == "" {
		return errors.New("redis store requires an address")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis db %d", c.Redis.DB)
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "webdojo"
	}

	if c.Sandbox.TimeoutMS < 0 {
		return fmt.Errorf("invalid sandbox timeout %dms", c.Sandbox.TimeoutMS)
	}
	if c.Sandbox.TimeoutMS == 0 {
		c.Sandbox.TimeoutMS = 2000
	}
	if c.Sandbox.MaxCallStack <= 0 {
		c.Sandbox.MaxCallStack = 1024
	}

	if c.Preview.Addr == "" {
		c.Preview.Addr = "127.0.0.1:17321"
	}
	if err := requireLoopback(c.Preview.Addr); err != nil {
		return err
	}
	if c.Preview.Keep <= 0 {
		c.Preview.Keep = 16
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "webdojo")
	}
	return nil
}

func requireLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid preview address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("preview address %q must be on loopback", addr)
	}
	return nil
}
