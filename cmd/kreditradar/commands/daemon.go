package commands

import (
	"context"
	"log/slog"
	"kreditradar-backend/lib/scrapers/durchblicker"
	"kreditradar-backend/lib/serviceutil"
	"kreditradar-backend/lib/telemetry"
	"kreditradar-backend/services/banks"
	"kreditradar-backend/services/ratestore"
	"kreditradar-backend/services/sweep"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Runs sweep and bank collection on cron schedules until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx)

		database := openDatabase(cfg)
		defer database.Close()
		store := ratestore.NewStore(database)

		scheduler := cron.New()

		if cfg.Daemon.SweepSchedule != "" {
			_, err := scheduler.AddFunc(cfg.Daemon.SweepSchedule, func() {
				runScheduledSweep(ctx, cfg, store)
			})
			if err != nil {
				serviceutil.Fatal("invalid sweep schedule", err)
			}
		}
		if cfg.Daemon.BanksSchedule != "" {
			service := banks.NewService(store)
			_, err := scheduler.AddFunc(cfg.Daemon.BanksSchedule, func() {
				_, err := service.CollectOffers(ctx, cfg.Banks.LoanAmount, cfg.Banks.DurationYears)
				if err != nil {
					slog.Error("scheduled bank collection failed", "err", err)
				}
			})
			if err != nil {
				serviceutil.Fatal("invalid banks schedule", err)
			}
		}

		if cfg.Daemon.ReportSchedule != "" {
			_, err := scheduler.AddFunc(cfg.Daemon.ReportSchedule, func() {
				err := runReport(ctx, cfg, store)
				if err != nil {
					slog.Error("scheduled report failed", "err", err)
				}
			})
			if err != nil {
				serviceutil.Fatal("invalid report schedule", err)
			}
		}

		if len(scheduler.Entries()) == 0 {
			slog.Warn("daemon has no schedules configured, exiting")
			return
		}

		slog.Info(
			"daemon started",
			"sweep_schedule", cfg.Daemon.SweepSchedule,
			"banks_schedule", cfg.Daemon.BanksSchedule,
			"report_schedule", cfg.Daemon.ReportSchedule,
		)
		scheduler.Start()
		<-ctx.Done()

		stopped := scheduler.Stop()
		<-stopped.Done()
		slog.Info("daemon stopped")
	},
}

func runScheduledSweep(ctx context.Context, cfg Config, store ratestore.Store) {
	driver, err := durchblicker.NewClient(durchblicker.ClientOptions{})
	if err != nil {
		slog.Error("scheduled sweep failed to initialize driver", "err", err)
		return
	}
	controller, err := sweep.NewController(driver, store, sweep.Options{
		Plan:          cfg.Sweep.Plan,
		Params:        cfg.Sweep.Params,
		FixierungStep: cfg.Sweep.FixierungStep,
		Notes:         cfg.Sweep.Notes,
	})
	if err != nil {
		slog.Error("scheduled sweep has an invalid plan", "err", err)
		return
	}

	summary, err := controller.Run(ctx)
	if err != nil {
		slog.Error("scheduled sweep interrupted", "err", err)
		return
	}
	slog.Info(
		"scheduled sweep finished",
		"succeeded", summary.Succeeded,
		"attempted", summary.Attempted,
		"variations", summary.TotalVariations,
	)
}
