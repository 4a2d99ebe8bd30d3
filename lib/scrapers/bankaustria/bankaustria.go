// Package bankaustria reads WohnKredit conditions from the Bank Austria
// rate calculator API. The endpoint takes the offer parameters as query
// arguments and answers JSON with a status envelope.
package bankaustria

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
	"kreditradar-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/bankaustria")

const apiUrl = "https://rechner.bankaustria.at/api/calculate-rate/"

type response struct {
	Status string `json:"status"`
	Data   Offer  `json:"data"`
}

type Offer struct {
	Auszahlungsbetrag  float64 `json:"Auszahlungsbetrag"`
	Rate               float64 `json:"Rate"`
	Sollzinssatz       float64 `json:"Sollzinssatz"`
	Effektivzinssatz   float64 `json:"Effektivzinssatz"`
	Gesamtkreditbetrag float64 `json:"Gesamtkreditbetrag"`
	Bearbeitungsspesen float64 `json:"Bearbeitungsspesen"`
	PaymentsTotal      int     `json:"paymentsTotal"`
}

type Client struct {
	Http *resty.Client
}

func NewClient() *Client {
	client := resty.New()
	client.SetTimeout(time.Second * 10)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("accept", "application/json, text/plain, */*")
	client.SetHeader("accept-language", "de-AT,de;q=0.9,en;q=0.8")
	client.SetHeader("referer", "https://www.bankaustria.at/privatkunden-finanzierungen-und-kredite-wohnkredit.jsp")

	telemetry.InstrumentResty(client, "scrapers/bankaustria/http")
	return &Client{Http: client}
}

// FetchOffer queries the calculator for a WohnKredit over the given
// amount and duration. Interest rate and fee parameters are the
// calculator's own defaults for a new mortgage loan.
func (c *Client) FetchOffer(ctx context.Context, loanAmount float64, durationYears int) (Offer, error) {
	ctx, span := tracer.Start(ctx, "FetchOffer")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"credit_value":      strconv.FormatFloat(loanAmount, 'f', 0, 64),
			"retention":         strconv.Itoa(durationYears),
			"interest_rate":     "3",
			"riskFeePerc":       "0.0",
			"typ":               "1",
			"accountFeeMonthly": "7.13",
			"processingFeePerc": "1.25",
			"new":               "1",
		}).
		Get(apiUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Offer{}, err
	}
	if res.StatusCode() != 200 {
		err = fmt.Errorf("bankaustria calculator: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Offer{}, err
	}

	var body response
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode json response")
		return Offer{}, err
	}
	if body.Status != "success" {
		err = fmt.Errorf("bankaustria calculator: status %q", body.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, "calculator rejected request")
		return Offer{}, err
	}
	return body.Data, nil
}

func (Offer) SourceUrl() string {
	return apiUrl
}
