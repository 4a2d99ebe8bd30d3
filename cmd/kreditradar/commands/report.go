package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"kreditradar-backend/lib/serviceutil"
	"kreditradar-backend/services/ratestore"
	"kreditradar-backend/services/report"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Renders the comparison report and rate chart from the newest stored data.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		database := openDatabase(cfg)
		defer database.Close()

		err := runReport(cmd.Context(), cfg, ratestore.NewStore(database))
		if err != nil {
			serviceutil.Fatal("failed to produce report", err)
		}
	},
}

// runReport renders the report and chart into the output dir and mails
// them when configured. Shared between the report command and the daemon.
func runReport(ctx context.Context, cfg Config, store ratestore.Store) error {
	service := report.NewService(store)
	view, err := service.Build(ctx)
	if err != nil {
		return err
	}

	var page bytes.Buffer
	err = service.RenderHtml(&page, view)
	if err != nil {
		return err
	}
	reportPath := filepath.Join(cfg.Report.OutputDir, "bank_comparison_housing_loan.html")
	err = os.WriteFile(reportPath, page.Bytes(), 0644)
	if err != nil {
		return err
	}
	slog.Info("wrote report", "path", reportPath)

	var chart bytes.Buffer
	err = service.RenderRateChart(&chart, view)
	if err != nil {
		// a chart needs at least one parsed rate, the report is still useful
		slog.Warn("skipping rate chart", "err", err)
		chart.Reset()
	} else {
		chartPath := filepath.Join(cfg.Report.OutputDir, "rate_chart.html")
		err = os.WriteFile(chartPath, chart.Bytes(), 0644)
		if err != nil {
			return err
		}
		slog.Info("wrote rate chart", "path", chartPath)
	}

	if !cfg.Report.SendEmail {
		return nil
	}
	mailer := report.Mailer{Config: cfg.Report.Smtp}
	attachments := map[string][]byte{}
	if chart.Len() > 0 {
		attachments["rate_chart.html"] = chart.Bytes()
	}
	err = mailer.SendReport("Wohnkredit Konditionenvergleich", page.Bytes(), attachments)
	if err != nil {
		return err
	}
	slog.Info("sent report email", "recipients", cfg.Report.Smtp.To)
	return nil
}
