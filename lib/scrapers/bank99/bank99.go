// Package bank99 reads housing-loan conditions from the public bank99
// Baufinanzierungsrechner API. The endpoint answers plain XML, no
// browser session required.
package bank99

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"
	"kreditradar-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/bank99")

const apiUrl = "https://pwa.bank99.at/public-web-api/baufirechner-kauf"

type Offer struct {
	Kaufpreis               float64 `xml:"kaufpreis"`
	Eigenmittel             float64 `xml:"eigenmittel"`
	Finanzierungsbetrag     float64 `xml:"finanzierungsbetrag"`
	Rate                    float64 `xml:"rate"`
	AnfangsSollZinssatz     float64 `xml:"anfangsSollZinssatz"`
	AnschlussSollZinssatz   float64 `xml:"anschlussSollZinssatz"`
	EffektivZinssatz        float64 `xml:"effektivZinssatz"`
	ZuZahlenderGesamtbetrag float64 `xml:"zuZahlenderGesamtbetrag"`
}

type Client struct {
	Http *resty.Client
}

func NewClient() *Client {
	client := resty.New()
	client.SetTimeout(time.Second * 10)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("accept", "application/xml, text/plain, */*")
	client.SetHeader("referer", "https://www.bank99.at/wohnfinanzierung/wohnkredit99")

	telemetry.InstrumentResty(client, "scrapers/bank99/http")
	return &Client{Http: client}
}

// FetchOffer queries the calculator for a fixed-rate purchase loan.
// Equity is assumed at 20% of the amount, the rate binding period is
// capped at 15 years.
func (c *Client) FetchOffer(ctx context.Context, loanAmount float64, durationYears int) (Offer, error) {
	ctx, span := tracer.Start(ctx, "FetchOffer")
	defer span.End()

	bindingYears := durationYears
	if bindingYears > 15 {
		bindingYears = 15
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"kaufpreis":         strconv.FormatFloat(loanAmount, 'f', 0, 64),
			"eigenmittel":       strconv.FormatFloat(loanAmount*0.2, 'f', 0, 64),
			"produkt":           "F",
			"laufzeit":          strconv.Itoa(durationYears),
			"zinsbindungsFrist": strconv.Itoa(bindingYears),
		}).
		Get(apiUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Offer{}, err
	}
	if res.StatusCode() != 200 {
		err = fmt.Errorf("bank99 calculator: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Offer{}, err
	}

	var offer Offer
	err = xml.Unmarshal(res.Body(), &offer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode xml response")
		return Offer{}, err
	}
	return offer, nil
}

func (Offer) SourceUrl() string {
	return apiUrl
}
