// Package germanfmt parses numbers out of German-locale display strings,
// the kind Austrian finance sites render: "1.948,50 €", "2,650 % p.a.",
// "€ 450.000". Thousands separator is ".", decimal separator is ",".
package germanfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrUnparseable = fmt.Errorf("value is not a german-locale number")

// ParseFloat parses a German-locale decimal, stripping any currency or
// unit text around it. "-", "–" and empty strings are unparseable, never zero.
func ParseFloat(value string) (float64, error) {
	digits := extractNumberRunes(value)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrUnparseable, value)
	}

	// german format: 1.234,56 -> 1234.56
	digits = strings.ReplaceAll(digits, ".", "")
	digits = strings.ReplaceAll(digits, ",", ".")

	parsed, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseable, value)
	}
	return parsed, nil
}

// ParseEuro parses a currency amount like "1.948,50 €" or "€ 1.948".
func ParseEuro(value string) (float64, error) {
	return ParseFloat(strings.ReplaceAll(value, "€", ""))
}

// ParsePercent parses the leading percentage out of strings like
// "2,650 % p.a. variabel" or "3,375 % p.a. fix". Trailing descriptive
// text is ignored.
func ParsePercent(value string) (float64, error) {
	idx := strings.IndexRune(value, '%')
	if idx >= 0 {
		value = value[:idx]
	}
	return ParseFloat(value)
}

// ParseInt parses a German-formatted integer like "450.000" or "35 Jahre".
func ParseInt(value string) (int, error) {
	parsed, err := ParseFloat(value)
	if err != nil {
		return 0, err
	}
	return int(parsed), nil
}

// pulls the first contiguous run of digits/separators out of the string,
// tolerating a leading minus sign
func extractNumberRunes(value string) string {
	var out strings.Builder
	started := false
	for _, r := range value {
		if unicode.IsDigit(r) || (started && (r == '.' || r == ',')) {
			out.WriteRune(r)
			started = true
			continue
		}
		if !started && r == '-' && out.Len() == 0 {
			out.WriteRune(r)
			continue
		}
		if started {
			break
		}
	}
	// a bare "-" is a placeholder, not a number
	s := strings.TrimSuffix(out.String(), ",")
	s = strings.TrimSuffix(s, ".")
	if s == "-" {
		return ""
	}
	return s
}
