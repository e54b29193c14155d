package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file picked up when no --config is given.
const DefaultFileName = "listbuilder.yaml"

// Config represents the application configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Lists   ListsConfig   `yaml:"lists"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// SourceConfig locates the content repository, both as a contents API and as a git remote.
type SourceConfig struct {
	APIURL    string      `yaml:"api_url"`
	RepoURL   string      `yaml:"repo_url"`
	Branch    string      `yaml:"branch,omitempty"`
	ListsDir  string      `yaml:"lists_dir"`
	UserAgent string      `yaml:"user_agent,omitempty"`
	Auth      *AuthConfig `yaml:"auth,omitempty"`
}

// ListsConfig controls which files count as lists.
type ListsConfig struct {
	Suffix    string   `yaml:"suffix"`
	Blacklist []string `yaml:"blacklist"`
}

// CacheConfig controls the on-disk clone and HTTP response cache.
type CacheConfig struct {
	Dir       string `yaml:"dir"`
	CloneName string `yaml:"clone_name"`
	HTTPDir   string `yaml:"http_dir"`
	HTTPTTL   string `yaml:"http_ttl"`
}

// OutputConfig controls where bundles are written.
type OutputConfig struct {
	Directory      string `yaml:"directory"`
	JSDir          string `yaml:"js_dir"`
	CategoryBundle string `yaml:"category_bundle"`
	IndexBundle    string `yaml:"index_bundle"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// ClonePath returns the directory holding the local clone of the content repository.
func (c *Config) ClonePath() string {
	return filepath.Join(c.Cache.Dir, c.Cache.CloneName)
}

// ListsPath returns the lists directory inside the local clone.
func (c *Config) ListsPath() string {
	return filepath.Join(c.ClonePath(), c.Source.ListsDir)
}

// HTTPCachePath returns the directory of the HTTP response cache.
func (c *Config) HTTPCachePath() string {
	return filepath.Join(c.Cache.Dir, c.Cache.HTTPDir)
}

// HTTPCacheTTL returns the parsed response cache expiry; invalid values fall back to the default.
func (c *Config) HTTPCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.HTTPTTL)
	if err != nil || d <= 0 {
		return DefaultHTTPTTL
	}
	return d
}

// Load loads configuration from the specified file.
//
// An empty path falls back to DefaultFileName in the working directory; when
// that file is absent too, the built-in defaults are returned.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if configPath == "" {
		if _, err := os.Stat(DefaultFileName); err != nil {
			cfg := Default()
			return cfg, nil
		}
		configPath = DefaultFileName
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references and applying defaults.
func Parse(data []byte) (*Config, error) {
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Default()
	exampleConfig.Source.Auth = &AuthConfig{
		Type:  AuthTypeToken,
		Token: "${GITHUB_TOKEN}",
	}
	exampleConfig.Metrics.Textfile = "build/listbuilder.prom"

	data, err := yaml.Marshal(exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
