package sweep

import (
	"fmt"
	"regexp"
	"strings"
	"kreditradar-backend/lib/germanfmt"

	"github.com/antzucaro/matchr"
)

// ErrMissingFixierung is returned when the results screen fields do not
// contain the Fixierung value itself, without it the record cannot be
// attributed to a sweep step.
var ErrMissingFixierung = fmt.Errorf("results fields are missing the fixierung value")

// canonical labels of the Finanzierungsdetails grid
const (
	labelFixierung           = "Fixierung"
	labelRate                = "Rate"
	labelZinssatz            = "Zinssatz"
	labelLaufzeit            = "Laufzeit"
	labelAnschlusskondition  = "Anschlusskondition"
	labelEffektiverZinssatz  = "Effektiver Zinssatz"
	labelAuszahlungsbetrag   = "Auszahlungsbetrag"
	labelEinberechneteKosten = "Einberechnete Kosten"
	labelKreditbetrag        = "Kreditbetrag"
	labelGesamtbetrag        = "Zu zahlender Gesamtbetrag"
	labelBesicherung         = "Besicherung"
)

var canonicalLabels = []string{
	labelFixierung,
	labelRate,
	labelZinssatz,
	labelLaufzeit,
	labelAnschlusskondition,
	labelEffektiverZinssatz,
	labelAuszahlungsbetrag,
	labelEinberechneteKosten,
	labelKreditbetrag,
	labelGesamtbetrag,
	labelBesicherung,
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return whitespaceRegex.ReplaceAllString(label, " ")
}

// the site occasionally reworded labels between deployments
// ("Anschlusskondition" vs. "Anschlusskondition nach Fixzinsphase"), so
// scraped labels are matched fuzzily against the canonical set instead
// of compared for equality.
func canonicalizeFields(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	for label, value := range raw {
		norm := normalizeLabel(label)

		best := ""
		bestScore := 0.0
		for _, canonical := range canonicalLabels {
			cnorm := normalizeLabel(canonical)
			score := matchr.JaroWinkler(norm, cnorm, false)
			if strings.HasPrefix(norm, cnorm) {
				score = 1
			}
			if score > bestScore {
				bestScore = score
				best = canonical
			}
		}
		if bestScore < 0.92 {
			continue
		}
		if _, taken := out[best]; taken {
			continue
		}
		out[best] = strings.TrimSpace(value)
	}
	return out
}

func euroAmount(fields map[string]string, label string) Amount {
	raw, ok := fields[label]
	if !ok {
		return Amount{}
	}
	value, err := germanfmt.ParseEuro(raw)
	if err != nil {
		return Amount{Raw: raw}
	}
	return Amount{Raw: raw, Value: value, Known: true}
}

func percentAmount(fields map[string]string, label string) Amount {
	raw, ok := fields[label]
	if !ok {
		return Amount{}
	}
	value, err := germanfmt.ParsePercent(raw)
	if err != nil {
		return Amount{Raw: raw}
	}
	return Amount{Raw: raw, Value: value, Known: true}
}

// ExtractVariation turns the raw label → display-string mapping of the
// results screen into a Variation. Every numeric field is parsed
// independently: a field that fails to parse degrades to an Amount with
// Known == false and never aborts the rest of the record. The only hard
// requirement is the Fixierung value itself.
func ExtractVariation(rawFields map[string]string) (Variation, error) {
	fields := canonicalizeFields(rawFields)

	fixierungRaw, ok := fields[labelFixierung]
	if !ok {
		return Variation{}, ErrMissingFixierung
	}
	fixierung, err := germanfmt.ParseInt(fixierungRaw)
	if err != nil {
		return Variation{}, fmt.Errorf("%w: unreadable value %q", ErrMissingFixierung, fixierungRaw)
	}

	return Variation{
		FixierungJahre:      fixierung,
		Rate:                euroAmount(fields, labelRate),
		Zinssatz:            percentAmount(fields, labelZinssatz),
		EffektiverZinssatz:  percentAmount(fields, labelEffektiverZinssatz),
		Auszahlungsbetrag:   euroAmount(fields, labelAuszahlungsbetrag),
		EinberechneteKosten: euroAmount(fields, labelEinberechneteKosten),
		Kreditbetrag:        euroAmount(fields, labelKreditbetrag),
		Gesamtbetrag:        euroAmount(fields, labelGesamtbetrag),
		LaufzeitText:        fields[labelLaufzeit],
		Anschlusskondition:  fields[labelAnschlusskondition],
		Besicherung:         fields[labelBesicherung],
	}, nil
}

// UnparsedFields lists the labels of numeric fields that degraded to an
// unparsed sentinel, for the run-end data quality report.
func (v Variation) UnparsedFields() []string {
	var out []string
	for _, f := range []struct {
		label  string
		amount Amount
	}{
		{labelRate, v.Rate},
		{labelZinssatz, v.Zinssatz},
		{labelEffektiverZinssatz, v.EffektiverZinssatz},
		{labelAuszahlungsbetrag, v.Auszahlungsbetrag},
		{labelEinberechneteKosten, v.EinberechneteKosten},
		{labelKreditbetrag, v.Kreditbetrag},
		{labelGesamtbetrag, v.Gesamtbetrag},
	} {
		if !f.amount.Known {
			out = append(out, f.label)
		}
	}
	return out
}
