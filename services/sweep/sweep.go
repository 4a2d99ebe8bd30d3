// Package sweep drives the durchblicker Kreditrechner through every
// Laufzeit × Fixierung combination of a session plan, extracts the
// Finanzierungsdetails shown for each combination and hands one run per
// Laufzeit to storage.
package sweep

import (
	"context"
	"time"
)

// RunParameters are the loan/household inputs that stay constant for a
// whole scraping session. They are passed through the call chain instead
// of living in package-level globals.
type RunParameters struct {
	Kreditbetrag        float64 `json:"kreditbetrag"`
	Kaufpreis           float64 `json:"kaufpreis"`
	Kaufnebenkosten     float64 `json:"kaufnebenkosten"`
	Eigenmittel         float64 `json:"eigenmittel"`
	HaushaltAlter       int     `json:"haushalt_alter"`
	HaushaltEinkommen   float64 `json:"haushalt_einkommen"`
	HaushaltNutzflaeche int     `json:"haushalt_nutzflaeche"`
	HaushaltKreditraten float64 `json:"haushalt_kreditraten"`
}

// Amount is a numeric field read off the results screen. Known reports
// whether the display string parsed; a failed parse is distinguishable
// from a true zero.
type Amount struct {
	Raw   string
	Value float64
	Known bool
}

// Variation is one extracted result for a (Laufzeit, Fixierung) pair.
type Variation struct {
	FixierungJahre int

	// monthly payment
	Rate Amount
	// nominal rate, Raw keeps the full display string ("2,650 % p.a. variabel")
	Zinssatz            Amount
	EffektiverZinssatz  Amount
	Auszahlungsbetrag   Amount
	EinberechneteKosten Amount
	Kreditbetrag        Amount
	Gesamtbetrag        Amount

	// descriptive strings shown as-is in reports
	LaufzeitText       string
	Anschlusskondition string
	Besicherung        string
}

// Run aggregates everything collected for one Laufzeit: the constant
// session parameters plus the variations in ascending Fixierung order.
// The variation list may be a strict subset of the planned Fixierung
// values when individual steps were skipped.
type Run struct {
	LaufzeitJahre int
	Params        RunParameters
	ScrapeDate    time.Time
	Notes         string
	Variations    []Variation
}

// ResultsScreen is a live handle on the calculator's results screen.
type ResultsScreen interface {
	SetFixierung(ctx context.Context, jahre int) error
	Fields(ctx context.Context) (map[string]string, error)
}

// FormDriver walks the multi-screen calculator form up to the results
// screen. It encapsulates a single stateful browser-like session, the
// controller never uses it concurrently.
type FormDriver interface {
	EstablishBase(ctx context.Context, laufzeitJahre int, params RunParameters) (ResultsScreen, error)
	Reset(ctx context.Context) error
}

// Store persists one Run atomically. It must accept a Run with zero
// variations.
type Store interface {
	SaveRun(ctx context.Context, run Run) (int64, error)
}
