package commands

import (
	"log/slog"
	"kreditradar-backend/lib/serviceutil"
	"kreditradar-backend/services/banks"
	"kreditradar-backend/services/ratestore"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(banksCmd)
}

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "Collects housing-loan offers straight from the bank calculator APIs.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		database := openDatabase(cfg)
		defer database.Close()

		service := banks.NewService(ratestore.NewStore(database))
		offers, err := service.CollectOffers(cmd.Context(), cfg.Banks.LoanAmount, cfg.Banks.DurationYears)
		if err != nil {
			serviceutil.Fatal("failed to persist bank offers", err)
		}

		for _, offer := range offers {
			slog.Info(
				"collected offer",
				"bank", offer.BankName,
				"rate", offer.MonthlyRate.Raw,
				"effective", offer.EffectiveRate,
			)
		}
		slog.Info("bank collection finished", "offers", len(offers))
	},
}
