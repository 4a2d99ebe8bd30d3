package ratestore

import (
	"context"
	"testing"
	"time"
	"kreditradar-backend/lib/testutil"
	"kreditradar-backend/services/ratestore/db"
	"kreditradar-backend/services/sweep"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func testRun(laufzeit int, scrapeDate time.Time) sweep.Run {
	return sweep.Run{
		LaufzeitJahre: laufzeit,
		ScrapeDate:    scrapeDate,
		Notes:         "test run",
		Params: sweep.RunParameters{
			Kreditbetrag:        500000,
			Kaufpreis:           500000,
			Kaufnebenkosten:     50000,
			Eigenmittel:         150000,
			HaushaltAlter:       45,
			HaushaltEinkommen:   8500,
			HaushaltNutzflaeche: 100,
			HaushaltKreditraten: 300,
		},
		Variations: []sweep.Variation{
			{
				FixierungJahre: 0,
				Rate:           sweep.Amount{Raw: "1.902,00 €", Value: 1902, Known: true},
				Zinssatz:       sweep.Amount{Raw: "2,650 % p.a. variabel", Value: 2.65, Known: true},
				Besicherung:    "hypothekarisch",
			},
			{
				FixierungJahre: 10,
				Rate:           sweep.Amount{Raw: "1.948,50 €", Value: 1948.5, Known: true},
				// unparsed sentinel, must come back as NULL
				Zinssatz: sweep.Amount{Raw: "k.A."},
			},
		},
	}
}

func TestSaveRunRoundtrip(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/ratestore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	scrapeDate := time.Now()
	runId, err := store.SaveRun(ctx, testRun(25, scrapeDate))
	require.NoError(t, err)
	require.NotZero(t, runId)

	runs, err := store.LatestRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	require.Equal(t, int64(25), run.Run.LaufzeitJahre)
	require.Equal(t, int64(2), run.Run.VariationCount)
	require.Equal(t, 500000.0, run.Run.Kreditbetrag.Float64)
	require.Equal(t, "test run", run.Run.Notes)

	require.Len(t, run.Variations, 2)
	require.Equal(t, int64(0), run.Variations[0].FixierungJahre)
	require.Equal(t, int64(10), run.Variations[1].FixierungJahre)
	require.Equal(t, 1948.5, run.Variations[1].Rate.Float64)

	// parsed rate survives, unparsed one is NULL but keeps its raw string
	require.True(t, run.Variations[0].ZinssatzProzent.Valid)
	require.Equal(t, 2.65, run.Variations[0].ZinssatzProzent.Float64)
	require.False(t, run.Variations[1].ZinssatzProzent.Valid)
	require.Equal(t, "k.A.", run.Variations[1].Zinssatz)
}

func TestSaveRunEmptyVariations(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/ratestore:empty",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx := context.Background()

	run := testRun(30, time.Now())
	run.Variations = nil
	runId, err := store.SaveRun(ctx, run)
	require.NoError(t, err)

	stored, err := store.qry.GetRun(ctx, runId)
	require.NoError(t, err)
	require.Zero(t, stored.VariationCount)

	variations, err := store.qry.GetVariationsByRun(ctx, runId)
	require.NoError(t, err)
	require.Empty(t, variations)
}

func TestLatestRunsPicksNewestSession(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/ratestore:latest",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx := context.Background()

	yesterday := time.Now().Add(-time.Hour * 24)
	today := time.Now()

	_, err := store.SaveRun(ctx, testRun(30, yesterday))
	require.NoError(t, err)
	_, err = store.SaveRun(ctx, testRun(25, today))
	require.NoError(t, err)
	_, err = store.SaveRun(ctx, testRun(20, today))
	require.NoError(t, err)

	runs, err := store.LatestRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// descending laufzeit within the session
	require.Equal(t, int64(25), runs[0].Run.LaufzeitJahre)
	require.Equal(t, int64(20), runs[1].Run.LaufzeitJahre)
}

func TestSaveBankOffers(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/ratestore:banks",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx := context.Background()

	err := store.SaveBankOffers(ctx, []BankOffer{
		{
			BankName:       "bank99",
			ProductName:    "Wohnkredit",
			LoanAmount:     sweep.Amount{Value: 300000, Known: true},
			DurationMonths: 300,
			MonthlyRate:    sweep.Amount{Value: 1520.33, Known: true},
			NominalRate:    "3.50% p.a.",
			EffectiveRate:  "3.76% p.a.",
		},
		{
			BankName:    "erste",
			ProductName: "Bauspardarlehen mit Hypothek",
		},
	})
	require.NoError(t, err)

	offers, err := store.LatestBankOffers(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	require.Equal(t, "bank99", offers[0].BankName)
	require.Equal(t, 1520.33, offers[0].MonthlyRate.Float64)
	require.Equal(t, "erste", offers[1].BankName)
	require.False(t, offers[1].MonthlyRate.Valid)
}
