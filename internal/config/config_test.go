package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/pkg/models"
)

const otherProgram = "AR6qBA8dEXQ9kdVQx8izgxhtdmwXqBiWRU77covQpgWt"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CIPHER_PROGRAM_ID", "CIPHER_KEYSTORE", "CIPHER_LOG_LEVEL", "CIPHER_READ_RPS"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.ProgramID.String() != DefaultProgramID {
		t.Fatalf("unexpected program id %s", cfg.ProgramID)
	}
	if cfg.Discriminators != codec.DefaultDiscriminators {
		t.Fatal("default discriminators should be the fixed table")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
programId: `+otherProgram+`
discriminators:
  profile: "0102030405060708"
readRateLimit:
  rps: 2.5
log:
  level: debug
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ProgramID != models.MustParseAddress(otherProgram) {
		t.Fatalf("expected program override, got %s", cfg.ProgramID)
	}
	if cfg.Discriminators.Profile != (codec.Discriminator{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("unexpected profile discriminator %s", cfg.Discriminators.Profile)
	}
	if cfg.Discriminators.Note != codec.DefaultDiscriminators.Note {
		t.Fatal("unset discriminators must keep defaults")
	}
	if cfg.ReadRateLimit.RPS != 2.5 || cfg.ReadRateLimit.Burst != Default().ReadRateLimit.Burst {
		t.Fatalf("unexpected rate limit %+v", cfg.ReadRateLimit)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected log level %v", cfg.LogLevel)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "log:\n  level: warn\n")
	t.Setenv("CIPHER_LOG_LEVEL", "error")
	t.Setenv("CIPHER_READ_RPS", "7")
	t.Setenv("CIPHER_PROGRAM_ID", otherProgram)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LogLevel != slog.LevelError {
		t.Fatalf("expected env log level, got %v", cfg.LogLevel)
	}
	if cfg.ReadRateLimit.RPS != 7 {
		t.Fatalf("expected env rps, got %v", cfg.ReadRateLimit.RPS)
	}
	if cfg.ProgramID.String() != otherProgram {
		t.Fatalf("expected env program id, got %s", cfg.ProgramID)
	}
}

func TestUnknownFileKeysAreIgnored(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "rpcEndpoint: http://127.0.0.1:8899\nkeystorePath: wallet.keystore\n")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := Default()
	want.KeystorePath = "wallet.keystore"
	if cfg != want {
		t.Fatalf("expected defaults plus keystore path, got %+v", cfg)
	}
}

func TestInvalidEnvRPSKeepsFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("CIPHER_READ_RPS", "fast")
	cfg := Default()
	if err := ApplyEnvOverrides(&cfg); err != nil {
		t.Fatalf("apply env failed: %v", err)
	}
	if cfg.ReadRateLimit.RPS != Default().ReadRateLimit.RPS {
		t.Fatalf("expected fallback rps, got %v", cfg.ReadRateLimit.RPS)
	}
}

func TestLoadRejectsInvalidInput(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"program":       "programId: not-base58-0OIl\n",
		"discriminator": "discriminators:\n  note: zz\n",
		"unknown":       "discriminators:\n  vault: \"0102030405060708\"\n",
		"duplicate":     "discriminators:\n  note: \"b865a5bc5f3f7fbc\"\n",
		"level":         "log:\n  level: loud\n",
		"yaml":          "programId: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFromPath(writeConfig(t, body)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	clearEnv(t)
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRuntimeHelpers(t *testing.T) {
	cfg := Default()
	c, err := cfg.Codec()
	if err != nil {
		t.Fatalf("codec failed: %v", err)
	}
	if c.Discriminators() != cfg.Discriminators {
		t.Fatal("codec should use configured discriminators")
	}
	if cfg.ReadLimiter() == nil {
		t.Fatal("expected a limiter for positive rps")
	}
	cfg.ReadRateLimit.RPS = 0
	if cfg.ReadLimiter() != nil {
		t.Fatal("expected nil limiter when rps is zero")
	}

	var buf bytes.Buffer
	cfg.Logger(&buf).Info("derived", "wallet", otherProgram, "mnemonic", "abandon")
	out := buf.String()
	if strings.Contains(out, otherProgram) || strings.Contains(out, "abandon") {
		t.Fatalf("logger must sanitize, got %s", out)
	}
}
