package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"
	"kreditradar-backend/lib/restyutil"
	"kreditradar-backend/lib/scrapers/durchblicker"
	"kreditradar-backend/lib/serviceutil"
	"kreditradar-backend/services/ratestore"
	"kreditradar-backend/services/sweep"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sweepCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweeps the durchblicker Kreditrechner over every Laufzeit and Fixierung of the plan.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		database := openDatabase(cfg)
		defer database.Close()
		store := ratestore.NewStore(database)

		driver, err := durchblicker.NewClient(durchblicker.ClientOptions{})
		if err != nil {
			serviceutil.Fatal("failed to initialize durchblicker client", err)
		}
		if *verbose {
			driver.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/durchblicker"))
		}

		controller, err := sweep.NewController(driver, store, sweep.Options{
			Plan:          cfg.Sweep.Plan,
			Params:        cfg.Sweep.Params,
			FixierungStep: cfg.Sweep.FixierungStep,
			Notes:         cfg.Sweep.Notes,
		})
		if err != nil {
			serviceutil.Fatal("invalid sweep plan", err)
		}

		slog.Info("starting sweep", "plan", cfg.Sweep.Plan, "kreditbetrag", cfg.Sweep.Params.Kreditbetrag)
		t1 := time.Now()
		summary, err := controller.Run(cmd.Context())
		if err != nil {
			serviceutil.Fatal("sweep interrupted", err)
		}
		slog.Info("sweep finished", "seconds", time.Since(t1).Seconds())

		renderSummary(summary)
	},
}

func renderSummary(summary sweep.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Laufzeit", "Outcome", "Variations", "Unparsed", "Run ID", "Store Error"})
	for _, o := range summary.Outcomes {
		storeErr := ""
		if o.StoreErr != nil {
			storeErr = o.StoreErr.Error()
		}
		runId := ""
		if o.RunId != 0 {
			runId = fmt.Sprintf("%d", o.RunId)
		}
		t.AppendRow(table.Row{
			fmt.Sprintf("%d Jahre", o.LaufzeitJahre),
			o.Describe(),
			o.Variations,
			o.UnparsedFields,
			runId,
			storeErr,
		})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d/%d ok", summary.Succeeded, summary.Attempted),
		"",
		summary.TotalVariations,
		summary.UnparsedFields,
		"",
		fmt.Sprintf("%d storage failures", summary.StorageFailures),
	})
	t.Render()
}
