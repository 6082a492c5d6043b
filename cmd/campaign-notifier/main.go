// campaign-notifier posts campaign report summaries to Slack.
//
// Usage:
//
//	campaign-notifier publish --config notifier.yaml --report report.json
//	campaign-notifier serve --config notifier.yaml --listen :8080
//	campaign-notifier check-config --config notifier.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/potooio/campaign-notifier/internal/api"
	"github.com/potooio/campaign-notifier/internal/config"
	"github.com/potooio/campaign-notifier/internal/notifier"
)

var (
	version    = "dev"
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "campaign-notifier",
		Short: "Post campaign report notifications to Slack",
		Long: `campaign-notifier decides whether a finished campaign report should be
announced, renders a summary, and posts it to a Slack channel.

Settings are read from the report.export.slack section of the config file
and can be overridden with CAMPAIGN_NOTIFIER_SLACK_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(checkConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the production JSON logger at the requested level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(lvl)
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return logConfig.Build()
}

// setup loads the configuration and builds the logger shared by all commands.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(logLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// buildPublisher returns a nil interface when the Slack publisher is disabled.
func buildPublisher(cfg config.Config, logger *zap.Logger) (api.ReportPublisher, error) {
	s := cfg.Slack()
	if !s.Enabled {
		logger.Info("Slack publisher disabled, reports will not be announced")
		return nil, nil
	}

	sender, err := notifier.NewSlackSender(logger, notifier.SlackSenderConfig{
		URL:            s.URL,
		Channel:        s.Channel,
		Token:          s.Token,
		TimeoutSeconds: s.TimeoutSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("create slack sender: %w", err)
	}

	logger.Info("Slack publisher configured",
		zap.String("url", notifier.RedactURL(s.URL)),
		zap.String("channel", s.Channel),
		zap.Any("status", s.Status),
	)
	return notifier.NewPublisher(sender, logger, s.StatusSet()), nil
}
