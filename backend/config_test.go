package main

import (
	"os"
	"path/filepath"
	"testing"
)

func restoreConfig(t *testing.T) {
	t.Helper()
	prev := configStore.Get()
	t.Cleanup(func() { configStore.Update(prev) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.AiDelayMs != 450 {
		t.Fatalf("expected default delay of 450ms, got %d", cfg.AiDelayMs)
	}
	if cfg.AiSeed != 0 {
		t.Fatalf("expected clock seeding by default, got %d", cfg.AiSeed)
	}
	if !cfg.LogMoves {
		t.Fatalf("expected move logging on by default")
	}
}

func TestLoadConfigFileMergesOverDefaults(t *testing.T) {
	restoreConfig(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"ai_delay_ms":25,"log_moves":false}`), 0o644); err != nil {
		t.Fatalf("expected config write to succeed, got %v", err)
	}

	LoadConfigFile(path)
	cfg := GetConfig()
	if cfg.AiDelayMs != 25 {
		t.Fatalf("expected delay 25ms from file, got %d", cfg.AiDelayMs)
	}
	if cfg.LogMoves {
		t.Fatalf("expected move logging off from file")
	}
	if cfg.AiSeed != DefaultConfig().AiSeed {
		t.Fatalf("expected unset keys to keep defaults, got seed %d", cfg.AiSeed)
	}
}

func TestLoadConfigFilePartialFileKeepsDefaults(t *testing.T) {
	restoreConfig(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"ai_seed":7}`), 0o644); err != nil {
		t.Fatalf("expected config write to succeed, got %v", err)
	}

	LoadConfigFile(path)
	cfg := GetConfig()
	if cfg.AiSeed != 7 {
		t.Fatalf("expected seed 7 from file, got %d", cfg.AiSeed)
	}
	if cfg.AiDelayMs != DefaultConfig().AiDelayMs {
		t.Fatalf("expected default delay, got %d", cfg.AiDelayMs)
	}
}

func TestLoadConfigFileMissingFileKeepsCurrent(t *testing.T) {
	restoreConfig(t)
	custom := DefaultConfig()
	custom.AiDelayMs = 111
	configStore.Update(custom)

	LoadConfigFile(filepath.Join(t.TempDir(), "absent.json"))
	if got := GetConfig().AiDelayMs; got != 111 {
		t.Fatalf("expected config untouched by missing file, got delay %d", got)
	}
}

func TestLoadConfigFileMalformedFileKeepsCurrent(t *testing.T) {
	restoreConfig(t)
	custom := DefaultConfig()
	custom.AiDelayMs = 222
	configStore.Update(custom)

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatalf("expected config write to succeed, got %v", err)
	}
	LoadConfigFile(path)
	if got := GetConfig().AiDelayMs; got != 222 {
		t.Fatalf("expected config untouched by malformed file, got delay %d", got)
	}
}

func TestConfigStoreClampsNegativeDelay(t *testing.T) {
	restoreConfig(t)
	cfg := DefaultConfig()
	cfg.AiDelayMs = -5
	configStore.Update(cfg)
	if got := configStore.Get().AiDelayMs; got != 0 {
		t.Fatalf("expected negative delay clamped to 0, got %d", got)
	}
}
