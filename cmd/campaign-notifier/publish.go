package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/potooio/campaign-notifier/internal/types"
)

func publishCmd() *cobra.Command {
	var (
		reportPath  string
		campaignKey string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a single campaign report",
		Long: `Read a campaign report (JSON or YAML) and post it to Slack if its status
is subscribed. Delivery failures are logged and do not change the exit code.`,
		Example: `  campaign-notifier publish -c notifier.yaml --report report.json
  cat report.json | campaign-notifier publish -c notifier.yaml --report - --key Campaign-1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			report, err := readReport(reportPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if campaignKey == "" {
				campaignKey = report.CampaignKey
			}
			if campaignKey == "" {
				return fmt.Errorf("campaign key is required: set --key or report.campaignKey")
			}

			publisher, err := buildPublisher(cfg, logger)
			if err != nil {
				return err
			}
			if publisher == nil {
				return nil
			}

			publisher.Publish(context.Background(), campaignKey, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reportPath, "report", "r", "-", "Path to the report file, or - for stdin")
	cmd.Flags().StringVarP(&campaignKey, "key", "k", "", "Campaign key (defaults to the report's campaignKey)")

	return cmd
}

// readReport decodes a report from path, or from stdin when path is "-".
func readReport(path string, stdin io.Reader) (types.CampaignReport, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return types.CampaignReport{}, fmt.Errorf("read report: %w", err)
	}

	var report types.CampaignReport
	if err := yaml.UnmarshalStrict(data, &report); err != nil {
		return types.CampaignReport{}, fmt.Errorf("parse report: %w", err)
	}
	if report.Status == "" {
		return types.CampaignReport{}, fmt.Errorf("parse report: status is required")
	}
	return report, nil
}
