// ABOUTME: Configuration loading and parsing for docsbot
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete docsbot configuration
type Config struct {
	Slack     SlackConfig     `yaml:"slack"`
	LLM       LLMConfig       `yaml:"llm"`
	Docs      DocsConfig      `yaml:"docs"`
	Responder ResponderConfig `yaml:"responder"`
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SlackConfig holds Slack socket-mode credentials
type SlackConfig struct {
	AppToken string `yaml:"app_token"`
	BotToken string `yaml:"bot_token"`
}

// LLMConfig holds the answer-generation backend configuration
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// DocsConfig holds the document source configuration.
// Documents are .txt files in a folder of a GitHub repository.
type DocsConfig struct {
	Owner     string `yaml:"owner"`
	Repo      string `yaml:"repo"`
	Branch    string `yaml:"branch"`
	Folder    string `yaml:"folder"`
	Token     string `yaml:"token"`
	CachePath string `yaml:"cache_path"`

	RefreshInterval time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	RefreshIntervalRaw string `yaml:"refresh_interval"`
}

// ResponderConfig holds the escalation timing for long-running answers.
// The two delays are independent: both timers are armed for every request
// and neither suppresses the other. Only finalization does.
type ResponderConfig struct {
	NoticeDelay      time.Duration `yaml:"-"`
	PlaceholderDelay time.Duration `yaml:"-"`

	// Optional override for the rotating "still working" notice phrasings
	Phrases []string `yaml:"phrases"`

	// Raw string values for YAML unmarshaling
	NoticeDelayRaw      string `yaml:"notice_delay"`
	PlaceholderDelayRaw string `yaml:"placeholder_delay"`
}

// HTTPConfig holds the keepalive server address
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	// DefaultNoticeDelay is how long before the private "working on it" notice fires.
	DefaultNoticeDelay = 5 * time.Second
	// DefaultPlaceholderDelay is how long before the public "thinking" placeholder fires.
	DefaultPlaceholderDelay = 1 * time.Second
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Slack.AppToken == "" {
		return fmt.Errorf("slack.app_token is required")
	}
	if c.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if c.Docs.Owner == "" || c.Docs.Repo == "" {
		return fmt.Errorf("docs.owner and docs.repo are required")
	}
	if c.Responder.NoticeDelay < 0 || c.Responder.PlaceholderDelay < 0 {
		return fmt.Errorf("responder delays must not be negative")
	}
	return nil
}

// applyDefaults fills in unset optional fields
func (c *Config) applyDefaults() {
	if c.Docs.Branch == "" {
		c.Docs.Branch = "main"
	}
	if c.Docs.Folder == "" {
		c.Docs.Folder = "docs"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":5000"
	}
	if c.Responder.NoticeDelayRaw == "" {
		c.Responder.NoticeDelay = DefaultNoticeDelay
	}
	if c.Responder.PlaceholderDelayRaw == "" {
		c.Responder.PlaceholderDelay = DefaultPlaceholderDelay
	}
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Responder.NoticeDelayRaw != "" {
		cfg.Responder.NoticeDelay, err = time.ParseDuration(cfg.Responder.NoticeDelayRaw)
		if err != nil {
			return fmt.Errorf("parsing notice_delay %q: %w", cfg.Responder.NoticeDelayRaw, err)
		}
	}

	if cfg.Responder.PlaceholderDelayRaw != "" {
		cfg.Responder.PlaceholderDelay, err = time.ParseDuration(cfg.Responder.PlaceholderDelayRaw)
		if err != nil {
			return fmt.Errorf("parsing placeholder_delay %q: %w", cfg.Responder.PlaceholderDelayRaw, err)
		}
	}

	if cfg.Docs.RefreshIntervalRaw != "" {
		cfg.Docs.RefreshInterval, err = time.ParseDuration(cfg.Docs.RefreshIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing refresh_interval %q: %w", cfg.Docs.RefreshIntervalRaw, err)
		}
	}

	return nil
}
