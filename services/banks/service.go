// Package banks collects housing-loan offers straight from the bank
// calculator APIs (bank99, Erste, Bank Austria) and persists one
// normalized snapshot per collection.
package banks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"kreditradar-backend/lib/scrapers/bank99"
	"kreditradar-backend/lib/scrapers/bankaustria"
	"kreditradar-backend/lib/scrapers/erste"
	"kreditradar-backend/services/ratestore"
	"kreditradar-backend/services/sweep"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/banks")

type Bank99Api interface {
	FetchOffer(ctx context.Context, loanAmount float64, durationYears int) (bank99.Offer, error)
}

type ErsteApi interface {
	FetchOffer(ctx context.Context, loanAmount float64, durationMonths int) (erste.Offer, error)
}

type BankAustriaApi interface {
	FetchOffer(ctx context.Context, loanAmount float64, durationYears int) (bankaustria.Offer, error)
}

type OfferStore interface {
	SaveBankOffers(ctx context.Context, offers []ratestore.BankOffer) error
}

type Service struct {
	Bank99      Bank99Api
	Erste       ErsteApi
	BankAustria BankAustriaApi
	Store       OfferStore
}

func NewService(store OfferStore) Service {
	return Service{
		Bank99:      bank99.NewClient(),
		Erste:       erste.NewClient(),
		BankAustria: bankaustria.NewClient(),
		Store:       store,
	}
}

// CollectOffers queries every bank API for the given loan amount and
// duration and persists whatever came back. A failing bank is logged
// and skipped, the others still go through; the error return is
// reserved for storage failures.
func (s Service) CollectOffers(ctx context.Context, loanAmount float64, durationYears int) ([]ratestore.BankOffer, error) {
	ctx, span := tracer.Start(ctx, "CollectOffers")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("loan_amount", loanAmount),
		attribute.Int("duration_years", durationYears),
	)

	var offers []ratestore.BankOffer

	if offer, err := s.Bank99.FetchOffer(ctx, loanAmount, durationYears); err != nil {
		slog.ErrorContext(ctx, "bank99 offer failed", "err", err)
	} else {
		offers = append(offers, ratestore.BankOffer{
			BankName:       "bank99",
			ProductName:    "Wohnkredit mit Hypothek",
			LoanAmount:     euroAmount(offer.Finanzierungsbetrag),
			DurationMonths: durationYears * 12,
			MonthlyRate:    euroAmount(offer.Rate),
			NominalRate:    formatRate(offer.AnfangsSollZinssatz),
			EffectiveRate:  formatRate(offer.EffektivZinssatz),
			TotalAmount:    euroAmount(offer.ZuZahlenderGesamtbetrag),
			SourceUrl:      offer.SourceUrl(),
		})
	}

	if offer, err := s.Erste.FetchOffer(ctx, loanAmount, durationYears*12); err != nil {
		slog.ErrorContext(ctx, "erste offer failed", "err", err)
	} else {
		offers = append(offers, ratestore.BankOffer{
			BankName:       "erste",
			ProductName:    "Bauspardarlehen mit Hypothek",
			LoanAmount:     euroAmount(loanAmount),
			DurationMonths: durationYears * 12,
			MonthlyRate:    euroAmount(offer.InstallmentAmount),
			NominalRate:    formatRate(offer.FixZinssatz),
			EffectiveRate:  formatRate(offer.EffektivZinssatz),
			TotalAmount:    euroAmount(offer.Gesamtbetrag),
			SourceUrl:      offer.SourceUrl(),
		})
	}

	if offer, err := s.BankAustria.FetchOffer(ctx, loanAmount, durationYears); err != nil {
		slog.ErrorContext(ctx, "bankaustria offer failed", "err", err)
	} else {
		offers = append(offers, ratestore.BankOffer{
			BankName:       "bankaustria",
			ProductName:    "WohnKredit",
			LoanAmount:     euroAmount(offer.Auszahlungsbetrag),
			DurationMonths: durationYears * 12,
			MonthlyRate:    euroAmount(offer.Rate),
			NominalRate:    formatRate(offer.Sollzinssatz),
			EffectiveRate:  formatRate(offer.Effektivzinssatz),
			TotalAmount:    euroAmount(offer.Gesamtkreditbetrag),
			SourceUrl:      offer.SourceUrl(),
		})
	}

	span.SetAttributes(attribute.Int("offers", len(offers)))
	if len(offers) == 0 {
		slog.WarnContext(ctx, "no bank offers collected, nothing to persist")
		return nil, nil
	}

	err := s.Store.SaveBankOffers(ctx, offers)
	if err != nil {
		return offers, err
	}
	return offers, nil
}

func euroAmount(v float64) sweep.Amount {
	if v == 0 {
		// calculators answer zero when a field is unavailable
		return sweep.Amount{Raw: ""}
	}
	return sweep.Amount{
		Raw:   fmt.Sprintf("%s €", germanNumber(v)),
		Value: v,
		Known: true,
	}
}

func formatRate(v float64) string {
	if v == 0 {
		return ""
	}
	return germanNumber(v) + " % p.a."
}

// germanNumber renders a float with "," as the decimal separator, the
// same shape the comparison site uses.
func germanNumber(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}
