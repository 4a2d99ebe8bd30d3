// Package report turns the stored sweep runs and bank offers into an
// HTML comparison report, a rate chart and optionally an email.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"
	"time"
	"kreditradar-backend/services/ratestore"
	"kreditradar-backend/services/ratestore/db"

	_ "embed"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/report")

//go:embed report.tmpl
var reportTmpl string

type Store interface {
	LatestRuns(ctx context.Context) ([]ratestore.RunWithVariations, error)
	LatestBankOffers(ctx context.Context) ([]db.BankOffer, error)
}

type Service struct {
	Store Store
}

func NewService(store Store) Service {
	return Service{Store: store}
}

// Report is the view model both the template and the chart render from.
type Report struct {
	GeneratedAt time.Time
	ScrapeDate  time.Time
	Runs        []RunView
	Offers      []OfferView
}

type RunView struct {
	LaufzeitJahre  int64
	Kreditbetrag   string
	VariationCount int64
	Notes          string
	Rows           []VariationRow
}

type VariationRow struct {
	FixierungJahre     int64
	Rate               string
	Zinssatz           string
	EffektiverZinssatz string
	Anschlusskondition string
	Gesamtbetrag       string
	Besicherung        string

	// numeric rate for the chart, invalid when the field never parsed
	rate sql.NullFloat64
}

type OfferView struct {
	BankName      string
	ProductName   string
	LoanAmount    string
	MonthlyRate   string
	NominalRate   string
	EffectiveRate string
	TotalAmount   string
	SourceUrl     string
}

// Build loads the newest scrape session and shapes it for rendering.
func (s Service) Build(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "Build")
	defer span.End()

	runs, err := s.Store.LatestRuns(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}
	offers, err := s.Store.LatestBankOffers(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}

	report := Report{GeneratedAt: time.Now()}
	for _, run := range runs {
		if report.ScrapeDate.IsZero() {
			report.ScrapeDate = time.Unix(run.Run.ScrapeDate, 0)
		}
		view := RunView{
			LaufzeitJahre:  run.Run.LaufzeitJahre,
			Kreditbetrag:   euro(run.Run.Kreditbetrag),
			VariationCount: run.Run.VariationCount,
			Notes:          run.Run.Notes,
		}
		for _, v := range run.Variations {
			view.Rows = append(view.Rows, VariationRow{
				FixierungJahre:     v.FixierungJahre,
				Rate:               euro(v.Rate),
				Zinssatz:           orDash(v.Zinssatz),
				EffektiverZinssatz: orDash(v.EffektiverZinssatz),
				Anschlusskondition: orDash(v.Anschlusskondition),
				Gesamtbetrag:       euro(v.Gesamtbetrag),
				Besicherung:        orDash(v.Besicherung),
				rate:               v.Rate,
			})
		}
		report.Runs = append(report.Runs, view)
	}
	for _, o := range offers {
		report.Offers = append(report.Offers, OfferView{
			BankName:      o.BankName,
			ProductName:   o.ProductName,
			LoanAmount:    euro(o.LoanAmount),
			MonthlyRate:   euro(o.MonthlyRate),
			NominalRate:   orDash(o.NominalRate),
			EffectiveRate: orDash(o.EffectiveRate),
			TotalAmount:   euro(o.TotalAmount),
			SourceUrl:     o.SourceUrl,
		})
	}
	return report, nil
}

// RenderHtml writes the comparison report as a standalone HTML page.
func (s Service) RenderHtml(w io.Writer, report Report) error {
	tmpl, err := template.New("report").Parse(reportTmpl)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, report)
}

// euro renders a stored amount in German display format, "–" when the
// value was never parsed.
func euro(v sql.NullFloat64) string {
	if !v.Valid {
		return "–"
	}
	return formatGerman(v.Float64) + " €"
}

func orDash(s string) string {
	if s == "" {
		return "–"
	}
	return s
}

// formatGerman renders 584550.5 as "584.550,50".
func formatGerman(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	whole := int64(v)
	cents := int64(math.Round((v - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, ".") + fmt.Sprintf(",%02d", cents)
	if neg {
		out = "-" + out
	}
	return out
}
