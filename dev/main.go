// Creates a local dev environment: a starter config.json5 next to go.mod
// and an empty sqlite database with the current schema applied.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	configlibsql "kreditradar-backend/lib/configutil/libsql"
	"kreditradar-backend/services/ratestore/db"
)

const starterConfig = `{
	database: {
		file: "dev/.state/kreditradar.db",
	},
	sweep: {
		plan: [35, 30, 25, 20, 15],
		fixierung_step: 5,
		params: {
			kreditbetrag: 500000,
			kaufpreis: 500000,
			kaufnebenkosten: 50000,
			eigenmittel: 150000,
			haushalt_alter: 45,
			haushalt_einkommen: 8500,
			haushalt_nutzflaeche: 100,
			haushalt_kreditraten: 300,
		},
	},
	banks: {
		loan_amount: 500000,
		duration_years: 25,
	},
	report: {
		output_dir: "dev/.state",
		send_email: false,
	},
	daemon: {
		// 06:00 every day
		sweep_schedule: "0 6 * * *",
		banks_schedule: "30 5 * * *",
	},
}
`

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll("dev/.state", 0777)
	if err != nil && !os.IsExist(err) {
		return err
	}

	_, err = os.Stat("config.json5")
	if os.IsNotExist(err) {
		err = os.WriteFile("config.json5", []byte(starterConfig), 0644)
		if err != nil {
			return err
		}
		slog.Info("wrote starter config", "path", "config.json5")
	} else {
		slog.Info("config.json5 already exists, leaving it alone")
	}

	database, err := configlibsql.Struct{File: "dev/.state/kreditradar.db"}.OpenDB(db.Schema)
	if err != nil {
		return err
	}
	defer database.Close()
	slog.Info("created database", "path", "dev/.state/kreditradar.db")

	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}
}
