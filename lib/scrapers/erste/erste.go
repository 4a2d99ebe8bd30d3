// Package erste reads Bauspardarlehen conditions from the Erste Bank /
// Sparkasse loan rate API. The endpoint returns a JSON array of rate
// proposals; the interesting numbers beyond the installment are buried
// in a free-text Legend field.
package erste

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
	"kreditradar-backend/lib/germanfmt"
	"kreditradar-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/erste")

const apiUrl = "https://rechner.sparkasse.at/api/v2/Loan/CalculateLoanRate"

type rateProposal struct {
	InstallmentAmount   float64 `json:"InstallmentAmount"`
	InstallmentFixed    float64 `json:"InstallmentFixed"`
	InstallmentInternal float64 `json:"InstallmentInternal"`
	Legend              string  `json:"Legend"`
}

// Offer is one rate proposal with the Legend details already pulled
// apart. Rate fields are zero when the Legend did not mention them.
type Offer struct {
	InstallmentAmount   float64
	InstallmentFixed    float64
	InstallmentInternal float64

	EffektivZinssatz float64
	FixZinssatz      float64
	Gesamtbetrag     float64

	// Legend holds the raw legal text the numbers were parsed from.
	Legend string
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
	client.SetHeader("referer", "https://rechner.sparkasse.at/")
	client.SetHeader("origin", "https://rechner.sparkasse.at")

	telemetry.InstrumentResty(client, "scrapers/erste/http")
	return &Client{Http: client}
}

// FetchOffer asks the calculator for a loan over the given amount and
// total duration in months.
func (c *Client) FetchOffer(ctx context.Context, loanAmount float64, durationMonths int) (Offer, error) {
	ctx, span := tracer.Start(ctx, "FetchOffer")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"darlehenssumme": strconv.FormatFloat(loanAmount, 'f', 0, 64),
			"laufzeitGesamt": strconv.Itoa(durationMonths),
			"mandant":        "0",
		}).
		Get(apiUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Offer{}, err
	}
	if res.StatusCode() != 200 {
		err = fmt.Errorf("erste calculator: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Offer{}, err
	}

	var proposals []rateProposal
	err = json.Unmarshal(res.Body(), &proposals)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode json response")
		return Offer{}, err
	}
	if len(proposals) == 0 {
		err = fmt.Errorf("erste calculator: empty proposal list")
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty response")
		return Offer{}, err
	}
	return parseProposal(proposals[0]), nil
}

var (
	effektivZinsRe = regexp.MustCompile(`EFFEKTIVZINSSATZ\s+(\d+[,.]\d+)\s*%`)
	gesamtbetragRe = regexp.MustCompile(`ZU ZAHLENDER GESAMTBETRAG\s+([\d.,]+)\s*Euro`)
	fixZinsRe      = regexp.MustCompile(`(\d+,\d+)\s*%\s*p\.a\.\s*der\s*Darlehenssumme\s*fix`)
)

// parseProposal lifts the structured numbers out of a proposal,
// including the rates only mentioned in the Legend text.
func parseProposal(p rateProposal) Offer {
	offer := Offer{
		InstallmentAmount:   p.InstallmentAmount,
		InstallmentFixed:    p.InstallmentFixed,
		InstallmentInternal: p.InstallmentInternal,
		Legend:              p.Legend,
	}

	if m := effektivZinsRe.FindStringSubmatch(p.Legend); m != nil {
		if v, err := germanfmt.ParseFloat(m[1]); err == nil {
			offer.EffektivZinssatz = v
		}
	}
	if m := gesamtbetragRe.FindStringSubmatch(p.Legend); m != nil {
		if v, err := germanfmt.ParseFloat(m[1]); err == nil {
			offer.Gesamtbetrag = v
		}
	}
	if m := fixZinsRe.FindStringSubmatch(p.Legend); m != nil {
		if v, err := germanfmt.ParseFloat(m[1]); err == nil {
			offer.FixZinssatz = v
		}
	}
	return offer
}

func (Offer) SourceUrl() string {
	return apiUrl
}
