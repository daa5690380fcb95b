package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/huimingz/commitgen/pkg/lang"
	"github.com/spf13/viper"
)

const (
	// LocalConfigFile is the per-project config file looked up in the working directory
	LocalConfigFile = ".commitgen.yaml"

	DefaultModel         = "openai/gpt-3.5-turbo"
	DefaultProvider      = "openrouter"
	DefaultMaxDiffLines  = 1000
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 150
	DefaultTimeout       = 30 // seconds
	DefaultSecretBackend = "config"
)

// Supported providers
var supportedProviders = map[string]bool{
	"openrouter": true,
	"openai":     true,
	"deepseek":   true,
	"ollama":     true,
	"gemini":     true,
	"grok":       true,
}

var supportedSecretBackends = map[string]bool{
	"config":  true,
	"keyring": true,
	"env":     true,
}

// userHomeDir is swapped in tests
var userHomeDir = os.UserHomeDir

// SupportedProviders returns a sorted list of supported providers
func SupportedProviders() []string {
	providers := make([]string, 0, len(supportedProviders))
	for p := range supportedProviders {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// ConfigError reports a malformed or invalid configuration.
// It is fatal at startup.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config represents the application configuration
type Config struct {
	APIKey        string       `yaml:"api_key" mapstructure:"api_key" json:"-"`
	DefaultModel  string       `yaml:"default_model" mapstructure:"default_model" json:"default_model"`
	Provider      string       `yaml:"provider" mapstructure:"provider" json:"provider"`
	BaseURL       string       `yaml:"base_url" mapstructure:"base_url" json:"base_url,omitempty"`
	MaxDiffLines  int          `yaml:"max_diff_lines" mapstructure:"max_diff_lines" json:"max_diff_lines"`
	Temperature   float64      `yaml:"temperature" mapstructure:"temperature" json:"temperature"`
	MaxTokens     int          `yaml:"max_tokens" mapstructure:"max_tokens" json:"max_tokens"`
	Timeout       int          `yaml:"timeout" mapstructure:"timeout" json:"timeout"` // in seconds
	Language      string       `yaml:"language" mapstructure:"language" json:"language"`
	SecretBackend string       `yaml:"secret_backend" mapstructure:"secret_backend" json:"secret_backend"`
	Retry         *RetryConfig `yaml:"retry" mapstructure:"retry" json:"retry,omitempty"`

	// path is the file this configuration was resolved from
	path string
}

// RetryConfig represents the retry configuration
type RetryConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled" json:"enabled"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts" json:"max_attempts"`
	BackoffBase float64 `yaml:"backoff_base" mapstructure:"backoff_base" json:"backoff_base"` // in seconds
	BackoffMax  float64 `yaml:"backoff_max" mapstructure:"backoff_max" json:"backoff_max"`    // in seconds
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Enabled:     true,
		MaxAttempts: 2,
		BackoffBase: 1.0,
		BackoffMax:  4.0,
	}
}

// Validate validates the retry configuration
func (r *RetryConfig) Validate() error {
	if r.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be non-negative")
	}
	if r.BackoffBase < 0 {
		return fmt.Errorf("backoff_base must be non-negative")
	}
	if r.BackoffMax < r.BackoffBase {
		return fmt.Errorf("backoff_max must be greater than or equal to backoff_base")
	}
	return nil
}

// ModelConfig is the provider-facing view of the configuration
type ModelConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// Validate validates the model configuration
func (m *ModelConfig) Validate() error {
	if m.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !supportedProviders[m.Provider] {
		return fmt.Errorf("unsupported provider: %s", m.Provider)
	}
	if m.Model == "" {
		return fmt.Errorf("model is required")
	}
	// Ollama runs locally and does not need an api key
	if m.Provider != "ollama" && m.APIKey == "" {
		return fmt.Errorf("api_key is required for provider %s", m.Provider)
	}
	return nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DefaultModel:  DefaultModel,
		Provider:      DefaultProvider,
		MaxDiffLines:  DefaultMaxDiffLines,
		Temperature:   DefaultTemperature,
		MaxTokens:     DefaultMaxTokens,
		Timeout:       DefaultTimeout,
		Language:      lang.English.String(),
		SecretBackend: DefaultSecretBackend,
		Retry:         DefaultRetryConfig(),
	}
}

// Path returns the file this configuration is read from and saved to
func (c *Config) Path() string {
	return c.path
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if c.DefaultModel == "" {
		return fmt.Errorf("default_model is required")
	}
	if !supportedProviders[c.Provider] {
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if c.MaxDiffLines <= 0 {
		return fmt.Errorf("max_diff_lines must be a positive integer")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be a positive integer")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if _, err := lang.Parse(c.Language); err != nil {
		return err
	}
	if c.SecretBackend != "" && !supportedSecretBackends[c.SecretBackend] {
		return fmt.Errorf("unsupported secret_backend: %s", c.SecretBackend)
	}
	if c.Retry != nil {
		if err := c.Retry.Validate(); err != nil {
			return fmt.Errorf("invalid retry configuration: %w", err)
		}
	}
	return nil
}

// ModelName returns the model to use
// Priority: parameter > env variable (COMMITGEN_MODEL) > default_model
func (c *Config) ModelName(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv("COMMITGEN_MODEL"); env != "" {
		return env
	}
	return c.DefaultModel
}

// ModelConfig builds the provider configuration for the given model name
func (c *Config) ModelConfig(modelName, apiKey string) ModelConfig {
	return ModelConfig{
		Provider: c.Provider,
		APIKey:   apiKey,
		Model:    c.ModelName(modelName),
		BaseURL:  c.BaseURL,
	}
}

// GetRetryConfig returns the retry configuration with defaults applied
func (c *Config) GetRetryConfig() *RetryConfig {
	if c.Retry == nil {
		return DefaultRetryConfig()
	}
	defaults := DefaultRetryConfig()
	if c.Retry.MaxAttempts < 0 {
		c.Retry.MaxAttempts = defaults.MaxAttempts
	}
	if c.Retry.BackoffBase < 0 {
		c.Retry.BackoffBase = defaults.BackoffBase
	}
	if c.Retry.BackoffMax < 0 {
		c.Retry.BackoffMax = defaults.BackoffMax
	}
	return c.Retry
}

// GlobalPath returns the per-user config file path
func GlobalPath() (string, error) {
	homeDir, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "commitgen", "config.yaml"), nil
}

// Resolve picks the config file path with the following priority:
// 1. Custom path if provided
// 2. Current directory .commitgen.yaml (if it exists)
// 3. Global ~/.config/commitgen/config.yaml
func Resolve(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}

	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile, nil
	}

	return GlobalPath()
}

// Load resolves the config file and reads it. The local and global files are
// optional: when missing, the built-in defaults are bound to the resolved
// path so a later Save lands there. An explicit path must exist.
func Load(customPath string) (*Config, error) {
	return load(customPath, customPath == "")
}

// LoadForUpdate is Load for commands that write the configuration back.
// A missing explicit path yields defaults and is created by Save.
func LoadForUpdate(customPath string) (*Config, error) {
	return load(customPath, true)
}

func load(customPath string, allowMissing bool) (*Config, error) {
	path, err := Resolve(customPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if !allowMissing {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("config file not found: %w", err)}
		}
		cfg := Default()
		cfg.path = path
		return cfg, nil
	}

	return LoadFromFile(path)
}

// LoadFromFile loads configuration from a file, filling unset keys with defaults
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to unmarshal config: %w", err)}
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return &cfg, nil
}

// Save writes the configuration to its resolved path
func Save(cfg *Config) error {
	if cfg.path == "" {
		path, err := Resolve("")
		if err != nil {
			return err
		}
		cfg.path = path
	}
	return SaveTo(cfg, cfg.path)
}

// SaveTo writes the configuration as YAML to path, creating parent directories
func SaveTo(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if cfg.APIKey != "" {
		v.Set("api_key", cfg.APIKey)
	}
	v.Set("default_model", cfg.DefaultModel)
	v.Set("provider", cfg.Provider)
	if cfg.BaseURL != "" {
		v.Set("base_url", cfg.BaseURL)
	}
	v.Set("max_diff_lines", cfg.MaxDiffLines)
	v.Set("temperature", cfg.Temperature)
	v.Set("max_tokens", cfg.MaxTokens)
	v.Set("timeout", cfg.Timeout)
	v.Set("language", cfg.Language)
	v.Set("secret_backend", cfg.SecretBackend)
	if cfg.Retry != nil {
		v.Set("retry.enabled", cfg.Retry.Enabled)
		v.Set("retry.max_attempts", cfg.Retry.MaxAttempts)
		v.Set("retry.backoff_base", cfg.Retry.BackoffBase)
		v.Set("retry.backoff_max", cfg.Retry.BackoffMax)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict config file permissions: %w", err)
	}

	cfg.path = path
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("default_model", d.DefaultModel)
	v.SetDefault("provider", d.Provider)
	v.SetDefault("max_diff_lines", d.MaxDiffLines)
	v.SetDefault("temperature", d.Temperature)
	v.SetDefault("max_tokens", d.MaxTokens)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("language", d.Language)
	v.SetDefault("secret_backend", d.SecretBackend)
}
