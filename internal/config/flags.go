package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagConfig        = "config"
	FlagStoreBackend  = "store-backend"
	FlagStorePath     = "store-path"
	FlagEncryptionKey = "encryption-key"
	FlagHashAlgorithm = "hash-algorithm"
	FlagBcryptCost    = "bcrypt-cost"
	FlagMaxAttempts   = "max-attempts"
	FlagLockout       = "lockout"
	FlagSweep         = "sweep-schedule"
	FlagTimeout       = "session-timeout"
	FlagWarningLead   = "session-warning"
	FlagLogLevel      = "log-level"
	FlagLogDev        = "log-dev"
)

// RegisterFlags adds the configuration flags to fs, using Default values as flag defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagConfig, "", "path to a .yaml, .yml or .toml config file")
	fs.String(FlagStoreBackend, d.Store.Backend, "storage backend: sqlite | memory")
	fs.String(FlagStorePath, d.Store.Path, "sqlite database file")
	fs.String(FlagEncryptionKey, "", "store secret (overrides the key file)")
	fs.String(FlagHashAlgorithm, d.Security.HashAlgorithm, "password hash for new accounts: bcrypt | argon2id")
	fs.Int(FlagBcryptCost, d.Security.BcryptCost, "bcrypt cost")
	fs.Int(FlagMaxAttempts, d.Limiter.MaxAttempts, "failed logins before lockout")
	fs.Duration(FlagLockout, d.Limiter.Lockout, "lockout duration")
	fs.String(FlagSweep, d.Limiter.SweepSchedule, "cron schedule for removing expired lockouts")
	fs.Duration(FlagTimeout, d.Session.Timeout, "idle session timeout")
	fs.Duration(FlagWarningLead, d.Session.WarningLead, "warn this long before the session expires, 0 disables")
	fs.String(FlagLogLevel, d.Log.Level, "log level: debug | info | warn | error")
	fs.Bool(FlagLogDev, d.Log.Dev, "human-readable development logs")
}

// FromFlags builds the effective configuration: defaults, then the --config file,
// then every flag set explicitly on the command line.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	cfg := Default()
	if path, _ := fs.GetString(FlagConfig); path != "" {
		if err := cfg.Load(path); err != nil {
			return Config{}, err
		}
	}

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = cfg.apply(fs, f.Name)
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) apply(fs *pflag.FlagSet, name string) error {
	var err error
	switch name {
	case FlagStoreBackend:
		c.Store.Backend, err = fs.GetString(name)
	case FlagStorePath:
		c.Store.Path, err = fs.GetString(name)
	case FlagEncryptionKey:
		c.Security.EncryptionKey, err = fs.GetString(name)
	case FlagHashAlgorithm:
		c.Security.HashAlgorithm, err = fs.GetString(name)
	case FlagBcryptCost:
		c.Security.BcryptCost, err = fs.GetInt(name)
	case FlagMaxAttempts:
		c.Limiter.MaxAttempts, err = fs.GetInt(name)
	case FlagLockout:
		c.Limiter.Lockout, err = fs.GetDuration(name)
	case FlagSweep:
		c.Limiter.SweepSchedule, err = fs.GetString(name)
	case FlagTimeout:
		c.Session.Timeout, err = fs.GetDuration(name)
	case FlagWarningLead:
		c.Session.WarningLead, err = fs.GetDuration(name)
	case FlagLogLevel:
		c.Log.Level, err = fs.GetString(name)
	case FlagLogDev:
		c.Log.Dev, err = fs.GetBool(name)
	}
	if err != nil {
		return fmt.Errorf("flag --%s: %w", name, err)
	}
	return nil
}
