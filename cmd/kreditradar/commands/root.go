package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"kreditradar-backend/lib/configutil"
	configlibsql "kreditradar-backend/lib/configutil/libsql"
	"kreditradar-backend/lib/serviceutil"
	"kreditradar-backend/lib/telemetry"
	"kreditradar-backend/services/ratestore/db"
	"kreditradar-backend/services/report"
	"kreditradar-backend/services/sweep"

	"github.com/spf13/cobra"
)

type SweepConfig struct {
	// Laufzeiten in years, processed in order
	Plan []int `json:"plan"`
	// Fixierung slider step in years
	FixierungStep int                 `json:"fixierung_step"`
	Params        sweep.RunParameters `json:"params"`
	Notes         string              `json:"notes"`
}

type BanksConfig struct {
	LoanAmount    float64 `json:"loan_amount"`
	DurationYears int     `json:"duration_years"`
}

type ReportConfig struct {
	OutputDir string            `json:"output_dir"`
	SendEmail bool              `json:"send_email"`
	Smtp      report.SmtpConfig `json:"smtp"`
}

type DaemonConfig struct {
	// cron expressions, empty disables the job
	SweepSchedule  string `json:"sweep_schedule"`
	BanksSchedule  string `json:"banks_schedule"`
	ReportSchedule string `json:"report_schedule"`
}

type Config struct {
	Database configlibsql.Struct `json:"database"`
	Sweep    SweepConfig         `json:"sweep"`
	Banks    BanksConfig         `json:"banks"`
	Report   ReportConfig        `json:"report"`
	Daemon   DaemonConfig        `json:"daemon"`
}

func (c Config) withDefaults() Config {
	if len(c.Sweep.Plan) == 0 {
		c.Sweep.Plan = []int{35, 30, 25, 20, 15}
	}
	if c.Sweep.Params == (sweep.RunParameters{}) {
		c.Sweep.Params = sweep.RunParameters{
			Kreditbetrag:        500000,
			Kaufpreis:           500000,
			Kaufnebenkosten:     50000,
			Eigenmittel:         150000,
			HaushaltAlter:       45,
			HaushaltEinkommen:   8500,
			HaushaltNutzflaeche: 100,
			HaushaltKreditraten: 300,
		}
	}
	if c.Banks.LoanAmount == 0 {
		c.Banks.LoanAmount = c.Sweep.Params.Kreditbetrag
	}
	if c.Banks.DurationYears == 0 {
		c.Banks.DurationYears = 25
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "."
	}
	return c
}

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "kreditradar",
	Short: "kreditradar scrapes Austrian housing-loan conditions and builds comparison reports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging and http dumps.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg.withDefaults()
}

func openDatabase(cfg Config) *sql.DB {
	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	return database
}
