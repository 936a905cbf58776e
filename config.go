package inkwell

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all settings for an inkwell server. Values come from an
// optional TOML file, overridden by environment variables, with defaults
// filled in last. JWTSecret has no default and is required.
type Config struct {
	Name        string `toml:"name"`
	BaseURL     string `toml:"base_url"`
	Description string `toml:"description"`
	Author      string `toml:"author"`

	Addr        string `toml:"addr"`
	DatabaseURL string `toml:"database_url"`
	UploadDir   string `toml:"upload_dir"`
	DistDir     string `toml:"dist_dir"`

	// Env selects the asset resolution strategy: "development" uses the
	// live dev server, anything else reads the build manifest.
	Env          string `toml:"env"`
	DevServerURL string `toml:"dev_server_url"`
	ClientEntry  string `toml:"client_entry"`

	JWTSecret    string   `toml:"jwt_secret"`
	JWTExpiresIn Duration `toml:"jwt_expires_in"`
	CookieSecure bool     `toml:"cookie_secure"`
}

// Duration wraps time.Duration so TOML files can spell durations as strings
// ("168h") instead of raw nanosecond integers.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LoadConfig reads the TOML file at path (skipped when path is empty or the
// file does not exist), applies environment overrides, and validates.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("inkwell: parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	cfg.setDefaults()
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("inkwell: JWT_SECRET is required")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.JWTExpiresIn = Duration{d}
		}
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Inkwell"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = "data/inkwell.db"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.DistDir == "" {
		c.DistDir = "dist/client"
	}
	if c.Env == "" {
		c.Env = "production"
	}
	if c.DevServerURL == "" {
		c.DevServerURL = "http://localhost:5173"
	}
	if c.ClientEntry == "" {
		c.ClientEntry = "src/entry-client.tsx"
	}
	if c.JWTExpiresIn.Duration == 0 {
		c.JWTExpiresIn = Duration{7 * 24 * time.Hour}
	}
}

// DatabasePath strips an optional sqlite:// scheme from DatabaseURL.
// The store is file-based, so the URL is just a path.
func (c Config) DatabasePath() string {
	p := strings.TrimPrefix(c.DatabaseURL, "sqlite://")
	return strings.TrimPrefix(p, "file:")
}

// Development reports whether the server runs against the live dev server.
func (c Config) Development() bool {
	return c.Env == "development"
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
