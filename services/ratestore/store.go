// Package ratestore persists sweep runs, their fixierung variations and
// direct bank API offers in a sqlite/libsql database.
package ratestore

import (
	"context"
	"database/sql"
	"time"
	"kreditradar-backend/services/ratestore/db"
	"kreditradar-backend/services/sweep"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/ratestore")

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func nullAmount(a sweep.Amount) sql.NullFloat64 {
	// an unparsed field is stored as NULL, never as zero
	return sql.NullFloat64{Float64: a.Value, Valid: a.Known}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

// SaveRun persists one sweep run and all of its variations in a single
// transaction and returns the run id. A run with zero variations is
// stored as a metadata-only row with variation_count = 0.
func (s Store) SaveRun(ctx context.Context, run sweep.Run) (int64, error) {
	ctx, span := tracer.Start(ctx, "SaveRun")
	defer span.End()
	span.SetAttributes(
		attribute.Int("laufzeit_jahre", run.LaufzeitJahre),
		attribute.Int("variations", len(run.Variations)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	scrapeDate := run.ScrapeDate
	if scrapeDate.IsZero() {
		scrapeDate = time.Now()
	}

	runId, err := txqry.CreateScrapingRun(ctx, db.CreateScrapingRunParams{
		ScrapeDate:          scrapeDate.Unix(),
		Kreditbetrag:        nullFloat(run.Params.Kreditbetrag),
		LaufzeitJahre:       int64(run.LaufzeitJahre),
		Kaufpreis:           nullFloat(run.Params.Kaufpreis),
		Kaufnebenkosten:     nullFloat(run.Params.Kaufnebenkosten),
		Eigenmittel:         nullFloat(run.Params.Eigenmittel),
		HaushaltAlter:       nullInt(run.Params.HaushaltAlter),
		HaushaltEinkommen:   nullFloat(run.Params.HaushaltEinkommen),
		HaushaltNutzflaeche: nullInt(run.Params.HaushaltNutzflaeche),
		HaushaltKreditraten: nullFloat(run.Params.HaushaltKreditraten),
		VariationCount:      int64(len(run.Variations)),
		Notes:               run.Notes,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	for _, v := range run.Variations {
		err = txqry.CreateFixierungVariation(ctx, db.CreateFixierungVariationParams{
			RunID:                     runId,
			FixierungJahre:            int64(v.FixierungJahre),
			Rate:                      nullAmount(v.Rate),
			Zinssatz:                  v.Zinssatz.Raw,
			ZinssatzProzent:           nullAmount(v.Zinssatz),
			Laufzeit:                  v.LaufzeitText,
			Anschlusskondition:        v.Anschlusskondition,
			EffektiverZinssatz:        v.EffektiverZinssatz.Raw,
			EffektiverZinssatzProzent: nullAmount(v.EffektiverZinssatz),
			Auszahlungsbetrag:         nullAmount(v.Auszahlungsbetrag),
			EinberechneteKosten:       nullAmount(v.EinberechneteKosten),
			Kreditbetrag:              nullAmount(v.Kreditbetrag),
			Gesamtbetrag:              nullAmount(v.Gesamtbetrag),
			Besicherung:               v.Besicherung,
			ScrapeTimestamp:           time.Now().Unix(),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return runId, nil
}

// SaveBankOffers persists one snapshot of direct bank API offers.
func (s Store) SaveBankOffers(ctx context.Context, offers []BankOffer) error {
	ctx, span := tracer.Start(ctx, "SaveBankOffers")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	now := time.Now().Unix()
	for _, o := range offers {
		err = txqry.CreateBankOffer(ctx, db.CreateBankOfferParams{
			BankName:        o.BankName,
			ProductName:     o.ProductName,
			LoanAmount:      nullAmount(o.LoanAmount),
			DurationMonths:  sql.NullInt64{Int64: int64(o.DurationMonths), Valid: o.DurationMonths > 0},
			MonthlyRate:     nullAmount(o.MonthlyRate),
			NominalRate:     o.NominalRate,
			EffectiveRate:   o.EffectiveRate,
			TotalAmount:     nullAmount(o.TotalAmount),
			SourceUrl:       o.SourceUrl,
			ScrapeTimestamp: now,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return tx.Commit()
}

// BankOffer is one normalized result from a direct bank API calculator.
type BankOffer struct {
	BankName       string
	ProductName    string
	LoanAmount     sweep.Amount
	DurationMonths int
	MonthlyRate    sweep.Amount
	NominalRate    string
	EffectiveRate  string
	TotalAmount    sweep.Amount
	SourceUrl      string
}

// RunWithVariations is the read-side shape used by reporting.
type RunWithVariations struct {
	Run        db.ScrapingRun
	Variations []db.FixierungVariation
}

// LatestRuns returns the most recent scrape session: every run sharing
// the newest scrape_date, each with its variations in ascending
// fixierung order.
func (s Store) LatestRuns(ctx context.Context) ([]RunWithVariations, error) {
	ctx, span := tracer.Start(ctx, "LatestRuns")
	defer span.End()

	runs, err := s.qry.GetLatestRuns(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var out []RunWithVariations
	for _, run := range runs {
		variations, err := s.qry.GetVariationsByRun(ctx, run.ID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		out = append(out, RunWithVariations{
			Run:        run,
			Variations: variations,
		})
	}
	return out, nil
}

// LatestBankOffers returns the newest stored offer per bank.
func (s Store) LatestBankOffers(ctx context.Context) ([]db.BankOffer, error) {
	return s.qry.GetLatestBankOffers(ctx)
}
