package sweep

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtractVariation(t *testing.T) {
	fields := map[string]string{
		"Fixierung":                 "10 Jahre",
		"Rate":                      "1.948,50 €",
		"Zinssatz":                  "2,650 % p.a. variabel",
		"Laufzeit":                  "25 Jahre",
		"Anschlusskondition nach Fixzinsphase": "3,375 % p.a. variabel",
		"Effektiver Zinssatz":       "2,834 % p.a.",
		"Auszahlungsbetrag":         "400.000 €",
		"Einberechnete Kosten":      "12.345,67 €",
		"Kreditbetrag":              "412.345,67 €",
		"Zu zahlender Gesamtbetrag": "584.550,00 €",
		"Besicherung":               "hypothekarisch",
	}

	got, err := ExtractVariation(fields)
	require.NoError(t, err)

	want := Variation{
		FixierungJahre:      10,
		Rate:                Amount{Raw: "1.948,50 €", Value: 1948.50, Known: true},
		Zinssatz:            Amount{Raw: "2,650 % p.a. variabel", Value: 2.65, Known: true},
		EffektiverZinssatz:  Amount{Raw: "2,834 % p.a.", Value: 2.834, Known: true},
		Auszahlungsbetrag:   Amount{Raw: "400.000 €", Value: 400000, Known: true},
		EinberechneteKosten: Amount{Raw: "12.345,67 €", Value: 12345.67, Known: true},
		Kreditbetrag:        Amount{Raw: "412.345,67 €", Value: 412345.67, Known: true},
		Gesamtbetrag:        Amount{Raw: "584.550,00 €", Value: 584550, Known: true},
		LaufzeitText:        "25 Jahre",
		Anschlusskondition:  "3,375 % p.a. variabel",
		Besicherung:         "hypothekarisch",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("variation mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, got.UnparsedFields())
}

func TestExtractVariationDegradesUnparsedFields(t *testing.T) {
	got, err := ExtractVariation(map[string]string{
		"Fixierung": "10",
		"Zinssatz":  "2,650 % p.a.",
		"Rate":      "-",
	})
	require.NoError(t, err)

	require.Equal(t, 10, got.FixierungJahre)
	require.True(t, got.Zinssatz.Known)
	require.Equal(t, 2.65, got.Zinssatz.Value)

	// "-" is a placeholder, it must not silently become zero
	require.False(t, got.Rate.Known)
	require.Equal(t, "-", got.Rate.Raw)

	// absent fields degrade the same way
	require.False(t, got.Gesamtbetrag.Known)
	require.Contains(t, got.UnparsedFields(), "Rate")
	require.Contains(t, got.UnparsedFields(), "Zu zahlender Gesamtbetrag")
}

func TestExtractVariationMissingFixierung(t *testing.T) {
	_, err := ExtractVariation(map[string]string{
		"Zinssatz": "2,650 % p.a.",
	})
	require.ErrorIs(t, err, ErrMissingFixierung)

	_, err = ExtractVariation(map[string]string{
		"Fixierung": "keine Angabe",
	})
	require.ErrorIs(t, err, ErrMissingFixierung)
}

func TestExtractVariationFuzzyLabels(t *testing.T) {
	// labels as the site rewords them between deployments
	got, err := ExtractVariation(map[string]string{
		"Fixierung:":           "5 Jahre",
		"Effektiver  Zinssatz": "3,1 % p.a.",
		"irrelevante Zeile":    "foo",
	})
	require.NoError(t, err)
	require.Equal(t, 5, got.FixierungJahre)
	require.True(t, got.EffektiverZinssatz.Known)
	require.Equal(t, 3.1, got.EffektiverZinssatz.Value)
}
