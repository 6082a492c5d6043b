// Package config loads the Slack report-export settings from a YAML file and
// environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/potooio/campaign-notifier/internal/types"
)

const (
	// DefaultURL is the Slack chat.postMessage endpoint.
	DefaultURL = "https://slack.com/api/chat.postMessage"
	// DefaultTimeoutSeconds bounds a single chat.postMessage request.
	DefaultTimeoutSeconds = 10

	envPrefix = "CAMPAIGN_NOTIFIER_SLACK_"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config mirrors the report.export.slack layout of the configuration file.
type Config struct {
	Report ReportConfig `json:"report"`
}

// ReportConfig groups report settings.
type ReportConfig struct {
	Export ExportConfig `json:"export"`
}

// ExportConfig groups report exporters.
type ExportConfig struct {
	Slack SlackConfig `json:"slack"`
}

// SlackConfig configures the Slack publisher.
type SlackConfig struct {
	// Enabled registers the publisher. Defaults to false.
	Enabled bool   `json:"enabled"`
	Channel string `json:"channel"`
	// Status lists the subscribed report statuses. Defaults to [ALL].
	Status StatusList `json:"status"`
	URL    string     `json:"url"`
	// Token is the bot token. Prefer the CAMPAIGN_NOTIFIER_SLACK_TOKEN env var.
	Token          string `json:"token,omitempty"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty"`
}

// StatusList is the subscribed status list. It decodes from a YAML sequence or
// from a comma-separated scalar such as "FAILED,ABORTED".
type StatusList []types.ReportStatus

// UnmarshalJSON implements json.Unmarshaler.
func (l *StatusList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err == nil {
		*l = parseStatusList(csv)
		return nil
	}
	var items []types.ReportStatus
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("status must be a list or a comma-separated string: %w", err)
	}
	*l = StatusList(items)
	return nil
}

// parseStatusList splits csv into a status list. A blank string yields an
// empty, non-nil list so validation rejects it instead of defaulting.
func parseStatusList(csv string) StatusList {
	statuses := StatusList{}
	for _, item := range splitCSV(csv) {
		statuses = append(statuses, types.ReportStatus(item))
	}
	return statuses
}

// Slack is a shorthand for c.Report.Export.Slack.
func (c *Config) Slack() *SlackConfig {
	return &c.Report.Export.Slack
}

// Default returns a disabled configuration with every default applied.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads path (optional), applies defaults and environment overrides, and validates.
func Load(path string) (Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return load(data, os.LookupEnv)
}

// Parse decodes YAML (or JSON) data, applies defaults, and validates. The
// environment is not consulted.
func Parse(data []byte) (Config, error) {
	return load(data, func(string) (string, bool) { return "", false })
}

func load(data []byte, lookup func(string) (string, bool)) (Config, error) {
	var c Config
	if len(data) > 0 {
		if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return Config{}, fmt.Errorf("%w: decode: %v", ErrInvalidConfig, err)
		}
	}
	if err := c.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	s := c.Slack()
	// An explicit empty list is kept so validation can reject it.
	if s.Status == nil {
		s.Status = StatusList{types.ReportStatusAll}
	}
	if s.URL == "" {
		s.URL = DefaultURL
	}
	if s.TimeoutSeconds == 0 {
		s.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

// applyEnv overrides file values with CAMPAIGN_NOTIFIER_SLACK_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	s := c.Slack()
	if v, ok := lookup(envPrefix + "ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sENABLED: %v", ErrInvalidConfig, envPrefix, err)
		}
		s.Enabled = enabled
	}
	if v, ok := lookup(envPrefix + "CHANNEL"); ok && v != "" {
		s.Channel = v
	}
	if v, ok := lookup(envPrefix + "STATUS"); ok && v != "" {
		s.Status = parseStatusList(v)
	}
	if v, ok := lookup(envPrefix + "URL"); ok && v != "" {
		s.URL = v
	}
	if v, ok := lookup(envPrefix + "TOKEN"); ok && v != "" {
		s.Token = v
	}
	if v, ok := lookup(envPrefix + "TIMEOUT_SECONDS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sTIMEOUT_SECONDS: %v", ErrInvalidConfig, envPrefix, err)
		}
		s.TimeoutSeconds = n
	}
	return nil
}

// Validate normalizes status names and checks the Slack settings. Channel and
// token are only required when the publisher is enabled.
func (c *Config) Validate() error {
	s := c.Slack()

	if len(s.Status) == 0 {
		return fmt.Errorf("%w: report.export.slack.status must not be empty", ErrInvalidConfig)
	}
	for i, raw := range s.Status {
		rs, err := types.ParseReportStatus(string(raw))
		if err != nil {
			return fmt.Errorf("%w: report.export.slack.status: %v", ErrInvalidConfig, err)
		}
		s.Status[i] = rs
	}

	u, err := url.Parse(s.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: report.export.slack.url %q must be an http(s) URL with a host", ErrInvalidConfig, s.URL)
	}
	if s.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: report.export.slack.timeoutSeconds must not be negative", ErrInvalidConfig)
	}

	if !s.Enabled {
		return nil
	}
	if strings.TrimSpace(s.Channel) == "" {
		return fmt.Errorf("%w: report.export.slack.channel is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("%w: report.export.slack.token is required", ErrInvalidConfig)
	}
	return nil
}

// StatusSet returns the subscribed statuses as a set.
func (s SlackConfig) StatusSet() types.StatusSet {
	return types.NewStatusSet(s.Status...)
}

// Redacted returns a copy safe to print: the token is masked.
func (s SlackConfig) Redacted() SlackConfig {
	out := s
	out.Status = append(StatusList(nil), s.Status...)
	if out.Token != "" {
		out.Token = "REDACTED"
	}
	return out
}

// splitCSV splits a comma-separated string into trimmed, non-empty items.
func splitCSV(s string) []string {
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
