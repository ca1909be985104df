// Package config handles runtime configuration of the jobboard CLI:
// defaults, an optional YAML or TOML file overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	pkgcrypto "github.com/and161185/jobboard/internal/crypto"
	"github.com/and161185/jobboard/internal/limiter"
	"github.com/and161185/jobboard/internal/session"
	"github.com/and161185/jobboard/internal/storage"
)

const appName = "jobboard"

// Config holds runtime settings.
type Config struct {
	Store    Store    `yaml:"store" toml:"store"`
	Security Security `yaml:"security" toml:"security"`
	Limiter  Limiter  `yaml:"limiter" toml:"limiter"`
	Session  Session  `yaml:"session" toml:"session"`
	Log      Log      `yaml:"log" toml:"log"`
}

// Store selects the storage backend. Path is the SQLite file and is ignored for memory.
type Store struct {
	Backend string `yaml:"backend" toml:"backend"`
	Path    string `yaml:"path" toml:"path"`
}

// Security configures hashing and the local encryption secret.
//
// EncryptionKey, when set, is used verbatim as the store secret. Otherwise the secret is
// read from KeyFile and generated on first use.
type Security struct {
	EncryptionKey string        `yaml:"encryption_key" toml:"encryption_key"`
	KeyFile       string        `yaml:"key_file" toml:"key_file"`
	HashAlgorithm string        `yaml:"hash_algorithm" toml:"hash_algorithm"`
	BcryptCost    int           `yaml:"bcrypt_cost" toml:"bcrypt_cost"`
	TokenTTL      time.Duration `yaml:"token_ttl" toml:"token_ttl"`
}

type Limiter struct {
	MaxAttempts   int           `yaml:"max_attempts" toml:"max_attempts"`
	Lockout       time.Duration `yaml:"lockout" toml:"lockout"`
	SweepSchedule string        `yaml:"sweep_schedule" toml:"sweep_schedule"`
}

type Session struct {
	Timeout     time.Duration `yaml:"timeout" toml:"timeout"`
	WarningLead time.Duration `yaml:"warning_lead" toml:"warning_lead"`
}

type Log struct {
	Level string `yaml:"level" toml:"level"`
	Dev   bool   `yaml:"dev" toml:"dev"`
}

// Dir returns the per-user configuration directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Default returns the built-in configuration rooted at Dir.
func Default() Config {
	dir := Dir()
	return Config{
		Store: Store{
			Backend: storage.BackendSQLite,
			Path:    filepath.Join(dir, "jobboard.db"),
		},
		Security: Security{
			KeyFile:       filepath.Join(dir, "store.key"),
			HashAlgorithm: pkgcrypto.AlgBcrypt,
			BcryptCost:    pkgcrypto.DefaultBcryptCost,
			TokenTTL:      12 * time.Hour,
		},
		Limiter: Limiter{
			MaxAttempts:   limiter.DefaultMaxAttempts,
			Lockout:       limiter.DefaultLockoutDuration,
			SweepSchedule: limiter.DefaultSweepSchedule,
		},
		Session: Session{
			Timeout:     session.DefaultTimeout,
			WarningLead: session.DefaultWarningLead,
		},
		Log: Log{Level: "warn"},
	}
}

// Load overlays the file at path onto c. The format is chosen by extension:
// .yaml/.yml or .toml. Keys missing from the file keep their current values.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parse toml config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var problems []error
	bad := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	switch c.Store.Backend {
	case storage.BackendMemory:
	case storage.BackendSQLite:
		if c.Store.Path == "" {
			bad("store.path is required for the sqlite backend")
		}
	default:
		bad("store.backend: unknown backend %q", c.Store.Backend)
	}

	if c.Security.EncryptionKey == "" && c.Security.KeyFile == "" {
		bad("security: either encryption_key or key_file must be set")
	}
	if _, err := pkgcrypto.NewHasher(c.Security.HashAlgorithm, c.Security.BcryptCost); err != nil {
		bad("security: %w", err)
	}
	if c.Security.TokenTTL <= 0 {
		bad("security.token_ttl must be positive")
	}

	if c.Limiter.MaxAttempts <= 0 {
		bad("limiter.max_attempts must be positive")
	}
	if c.Limiter.Lockout <= 0 {
		bad("limiter.lockout must be positive")
	}
	if _, err := limiter.ParseSchedule(c.Limiter.SweepSchedule); err != nil {
		bad("limiter.sweep_schedule: %w", err)
	}

	if c.Session.Timeout <= 0 {
		bad("session.timeout must be positive")
	}
	if c.Session.WarningLead < 0 || c.Session.WarningLead >= c.Session.Timeout {
		bad("session.warning_lead must be in [0, timeout)")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		bad("log.level: %w", err)
	}
	return errors.Join(problems...)
}

const secretLen = 32

// Secret returns the store secret: EncryptionKey if set, else the contents of KeyFile.
// A missing key file is created with a fresh random secret.
func (s Security) Secret() ([]byte, error) {
	if s.EncryptionKey != "" {
		return []byte(s.EncryptionKey), nil
	}
	b, err := os.ReadFile(s.KeyFile)
	if err == nil {
		if len(b) < secretLen {
			return nil, fmt.Errorf("key file %s: too short", s.KeyFile)
		}
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	b, err = pkgcrypto.RandBytes(secretLen)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.KeyFile), 0o700); err != nil {
		return nil, fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(s.KeyFile, b, 0o600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}
	return b, nil
}
