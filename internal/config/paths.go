package config

import "path/filepath"

const (
	// Layout under CHATRELAY_HOME.
	ConfigFilePath = "config.toml"
	DataDirPath    = "data"
	UsageFilePath  = "usage.jsonl"
)

func homeConfigPath(home string) string {
	return filepath.Join(home, ConfigFilePath)
}

func defaultHomePath(home string) string {
	return filepath.Join(home, ".chatrelay")
}

// ConfigPath returns the absolute path of the TOML config file.
func (c *Config) ConfigPath() string {
	return homeConfigPath(c.HomeDir)
}

// DataDir returns the root directory served by the read_file tool.
func (c *Config) DataDir() string {
	return filepath.Join(c.HomeDir, DataDirPath)
}

// UsagePath returns the absolute path of the usage JSONL log.
func (c *Config) UsagePath() string {
	return filepath.Join(c.HomeDir, UsageFilePath)
}
