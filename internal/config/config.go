// Package config loads client settings from defaults, an optional cipher.yaml
// and CIPHER_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/pkg/models"

	"gopkg.in/yaml.v3"
)

const (
	DefaultProgramID = "CPHRneHpHq6HcBKAqVcSy4bCkL6Y3BBQnLN9qQ4itQMC"
	DefaultFileName  = "cipher.yaml"
)

var ErrInvalidConfig = errors.New("invalid config")

type RateLimit struct {
	RPS   float64
	Burst int
}

type Config struct {
	ProgramID      models.Address
	KeystorePath   string
	Discriminators codec.Discriminators
	ReadRateLimit  RateLimit
	LogLevel       slog.Level
}

// FileConfig mirrors cipher.yaml. Zero values leave defaults in place.
type FileConfig struct {
	ProgramID      string            `yaml:"programId"`
	KeystorePath   string            `yaml:"keystorePath"`
	Discriminators map[string]string `yaml:"discriminators"`
	ReadRateLimit  FileRateLimit     `yaml:"readRateLimit"`
	Log            FileLogConfig     `yaml:"log"`
}

type FileRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type FileLogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		ProgramID:      models.MustParseAddress(DefaultProgramID),
		KeystorePath:   "cipher.keystore",
		Discriminators: codec.DefaultDiscriminators,
		ReadRateLimit:  RateLimit{RPS: 10, Burst: 20},
		LogLevel:       slog.LevelInfo,
	}
}

// LoadFromPath reads configPath, or the first default candidate present when
// configPath is empty. A missing default file is not an error; a missing
// explicit file is.
func LoadFromPath(configPath string) (Config, error) {
	cfg := Default()

	candidates := []string{DefaultFileName, "configs/" + DefaultFileName}
	explicit := strings.TrimSpace(configPath) != ""
	if explicit {
		candidates = []string{strings.TrimSpace(configPath)}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit {
				return Config{}, err
			}
			continue
		}
		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
		if err := Merge(&cfg, parsed); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		break
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func Merge(dst *Config, src FileConfig) error {
	if v := strings.TrimSpace(src.ProgramID); v != "" {
		id, err := models.ParseAddress(v)
		if err != nil {
			return fmt.Errorf("%w: programId: %v", ErrInvalidConfig, err)
		}
		dst.ProgramID = id
	}
	if v := strings.TrimSpace(src.KeystorePath); v != "" {
		dst.KeystorePath = v
	}
	for name, raw := range src.Discriminators {
		if err := setDiscriminator(&dst.Discriminators, name, raw); err != nil {
			return err
		}
	}
	if src.ReadRateLimit.RPS != 0 {
		dst.ReadRateLimit.RPS = src.ReadRateLimit.RPS
	}
	if src.ReadRateLimit.Burst != 0 {
		dst.ReadRateLimit.Burst = src.ReadRateLimit.Burst
	}
	if v := strings.TrimSpace(src.Log.Level); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return err
		}
		dst.LogLevel = level
	}
	return nil
}

func ApplyEnvOverrides(cfg *Config) error {
	if v := envString("CIPHER_PROGRAM_ID"); v != "" {
		id, err := models.ParseAddress(v)
		if err != nil {
			return fmt.Errorf("%w: CIPHER_PROGRAM_ID: %v", ErrInvalidConfig, err)
		}
		cfg.ProgramID = id
	}
	if v := envString("CIPHER_KEYSTORE"); v != "" {
		cfg.KeystorePath = v
	}
	if v := envString("CIPHER_LOG_LEVEL"); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	cfg.ReadRateLimit.RPS = envFloatWithFallback("CIPHER_READ_RPS", cfg.ReadRateLimit.RPS)
	return nil
}

func (c Config) Validate() error {
	if c.ProgramID.IsZero() {
		return fmt.Errorf("%w: program id is required", ErrInvalidConfig)
	}
	if c.ReadRateLimit.RPS < 0 || c.ReadRateLimit.Burst < 0 {
		return fmt.Errorf("%w: read rate limit must not be negative", ErrInvalidConfig)
	}
	if err := c.Discriminators.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, raw)
	}
	return level, nil
}

func setDiscriminator(d *codec.Discriminators, name, raw string) error {
	tag, err := codec.ParseDiscriminator(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: discriminator %s: %v", ErrInvalidConfig, name, err)
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "profile":
		d.Profile = tag
	case "note":
		d.Note = tag
	case "message":
		d.Message = tag
	case "register":
		d.Register = tag
	case "createnote", "create_note":
		d.CreateNote = tag
	case "updatenote", "update_note":
		d.UpdateNote = tag
	case "deletenote", "delete_note":
		d.DeleteNote = tag
	case "sendmessage", "send_message":
		d.SendMessage = tag
	default:
		return fmt.Errorf("%w: unknown discriminator %q", ErrInvalidConfig, name)
	}
	return nil
}
