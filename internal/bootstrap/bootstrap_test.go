package bootstrap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chatrelay-ai/chatrelay/internal/config"
)

func TestInitializeCreatesHomeTree(t *testing.T) {
	homeDir := filepath.Join(t.TempDir(), ".chatrelay")
	cfg := &config.Config{HomeDir: homeDir}

	if err := Initialize(cfg); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	for _, path := range []string{cfg.DataDir(), cfg.ConfigPath()} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %q to exist: %v", path, err)
		}
	}

	raw, err := os.ReadFile(cfg.ConfigPath())
	if err != nil {
		t.Fatalf("read config.toml: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "$GITHUB_TOKEN") {
		t.Fatalf("expected api key env reference in default config, got %q", content)
	}
	if !strings.Contains(content, "gpt-4.1-mini") {
		t.Fatalf("expected default model in config, got %q", content)
	}
}

func TestInitializeKeepsExistingConfig(t *testing.T) {
	homeDir := filepath.Join(t.TempDir(), ".chatrelay")
	cfg := &config.Config{HomeDir: homeDir}

	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	custom := "[server]\nlisten = \":9999\"\n"
	if err := os.WriteFile(cfg.ConfigPath(), []byte(custom), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Initialize(cfg); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	raw, err := os.ReadFile(cfg.ConfigPath())
	if err != nil {
		t.Fatalf("read config.toml: %v", err)
	}
	if string(raw) != custom {
		t.Fatalf("existing config was overwritten: %q", string(raw))
	}
}
