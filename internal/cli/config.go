package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIBase = "http://localhost:8080"
	defaultSiteDir = "generated"
)

// CLIConfig holds CLI configuration persisted to disk.
type CLIConfig struct {
	APIBase  string   `yaml:"api_base,omitempty" json:"api_base,omitempty"`
	SiteDir  string   `yaml:"site_dir,omitempty" json:"site_dir,omitempty"`
	OutDir   string   `yaml:"out_dir,omitempty" json:"out_dir,omitempty"`
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	LogFile  string   `yaml:"log_file,omitempty" json:"log_file,omitempty"`
}

// configPath returns the path to the CLI config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "blog-comments", "config.yaml"), nil
}

// loadConfig reads the CLI config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// saveConfig writes the CLI config to disk.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// getAPIBase returns the API base URL from flag, env var, config, or default.
func getAPIBase() string {
	if flagAPI != "" {
		return flagAPI
	}
	if v := os.Getenv("BLOG_COMMENTS_API_BASE"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil && cfg.APIBase != "" {
		return cfg.APIBase
	}
	return defaultAPIBase
}

// getLogFile returns the log file from flag, env var, or config.
// Empty means stderr.
func getLogFile() string {
	if flagLogFile != "" {
		return flagLogFile
	}
	if v := os.Getenv("BLOG_COMMENTS_LOG_FILE"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil {
		return cfg.LogFile
	}
	return ""
}

// getSiteDir returns the generated site directory from flag, config, or
// the generator's default output directory.
func getSiteDir(flag string) string {
	if flag != "" {
		return flag
	}
	cfg, err := loadConfig()
	if err == nil && cfg.SiteDir != "" {
		return cfg.SiteDir
	}
	return defaultSiteDir
}

// getOutDir returns where rendered pages go. Defaults to rendering in place.
func getOutDir(flag, siteDir string) string {
	if flag != "" {
		return flag
	}
	cfg, err := loadConfig()
	if err == nil && cfg.OutDir != "" {
		return cfg.OutDir
	}
	return siteDir
}

// getPatterns returns the page patterns from config, or nil for the default.
func getPatterns() []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	return cfg.Patterns
}

// effectiveConfig resolves every setting the way the commands do.
func effectiveConfig() CLIConfig {
	site := getSiteDir("")
	return CLIConfig{
		APIBase:  getAPIBase(),
		SiteDir:  site,
		OutDir:   getOutDir("", site),
		Patterns: getPatterns(),
		LogFile:  getLogFile(),
	}
}
