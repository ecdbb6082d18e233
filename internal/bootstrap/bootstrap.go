// Package bootstrap creates the chatrelay home tree on first run.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/chatrelay-ai/chatrelay/internal/config"
)

// Initialize creates the expected chatrelay data tree if missing.
func Initialize(cfg *config.Config) error {
	dirs := []string{
		cfg.HomeDir,
		cfg.DataDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	userConfig, err := config.DefaultUserConfigTOML()
	if err != nil {
		return err
	}
	return writeFileIfMissing(cfg.ConfigPath(), userConfig)
}

func writeFileIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %q: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write file %q: %w", path, err)
	}
	return nil
}
