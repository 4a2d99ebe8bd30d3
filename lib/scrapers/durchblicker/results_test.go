package durchblicker

import (
	"strings"
	"testing"
	"kreditradar-backend/services/sweep"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const ergebnisFixture = `
<html><body>
<section data-component="Kreditangebote">
	<div class="grid"><div>irrelevant</div><div><span>offer list</span></div></div>
</section>
<section data-component="Finanzierungsdetails">
	<div class="grid grid-cols-subgrid"><div>Fixierung</div><div class="sep"></div><div class="text-bluegrey"><span>10 Jahre</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Rate</div><div class="sep"></div><div class="text-bluegrey"><span>1.948,50&nbsp;€</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Zinssatz</div><div class="sep"></div><div class="text-bluegrey"><span>2,650 % p.a. variabel</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Laufzeit</div><div class="sep"></div><div class="text-bluegrey"><span>25 Jahre</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Anschlusskondition nach Fixzinsphase</div><div class="sep"></div><div class="text-bluegrey"><span>3,375 % p.a. variabel</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Effektiver Zinssatz</div><div class="sep"></div><div class="text-bluegrey"><span>2,834 % p.a.</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Auszahlungsbetrag</div><div class="sep"></div><div class="text-bluegrey"><span>400.000&nbsp;€</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Einberechnete Kosten</div><div class="sep"></div><div class="text-bluegrey"><span>12.345,67&nbsp;€</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Kreditbetrag</div><div class="sep"></div><div class="text-bluegrey"><span>412.345,67&nbsp;€</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Zu zahlender Gesamtbetrag</div><div class="sep"></div><div class="text-bluegrey"><span>584.550,00&nbsp;€</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Besicherung</div><div class="sep"></div><div class="text-bluegrey"><span>hypothekarisch</span></div></div>
	<div class="grid grid-cols-subgrid"><div>Leere Zeile</div><div class="sep"></div><div class="text-bluegrey"><span></span></div></div>
</section>
</body></html>`

func TestParseFinanzierungsdetails(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ergebnisFixture))
	require.NoError(t, err)

	fields, err := parseFinanzierungsdetails(doc)
	require.NoError(t, err)

	require.Equal(t, "10 Jahre", fields["Fixierung"])
	require.Equal(t, "2,650 % p.a. variabel", fields["Zinssatz"])
	require.Equal(t, "hypothekarisch", fields["Besicherung"])
	// rows outside the Finanzierungsdetails component are ignored
	require.NotContains(t, fields, "irrelevant")
	// rows without a value are dropped
	require.NotContains(t, fields, "Leere Zeile")
}

func TestParsedFieldsFeedExtraction(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ergebnisFixture))
	require.NoError(t, err)

	fields, err := parseFinanzierungsdetails(doc)
	require.NoError(t, err)

	variation, err := sweep.ExtractVariation(fields)
	require.NoError(t, err)
	require.Equal(t, 10, variation.FixierungJahre)
	require.Equal(t, 1948.50, variation.Rate.Value)
	require.Equal(t, 2.65, variation.Zinssatz.Value)
	require.Equal(t, 584550.0, variation.Gesamtbetrag.Value)
	require.Equal(t, "3,375 % p.a. variabel", variation.Anschlusskondition)
	require.Empty(t, variation.UnparsedFields())
}

func TestParseFinanzierungsdetailsMissingComponent(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>404</p></body></html>"))
	require.NoError(t, err)

	_, err = parseFinanzierungsdetails(doc)
	require.Error(t, err)
}
