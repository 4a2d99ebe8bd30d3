// Package durchblicker drives the durchblicker.at Kreditrechner, a
// four-screen loan calculator (credit amount/duration → project →
// household → results), over plain HTTP. It implements sweep.FormDriver.
package durchblicker

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"
	"kreditradar-backend/lib/telemetry"
	"kreditradar-backend/services/sweep"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://durchblicker.at"

var ErrNoSession = fmt.Errorf("calculator session was not established")

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	// csrf token of the live calculator session, empty when no session
	// is established
	token string
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("accept-language", "de-AT,de;q=0.9,en;q=0.8")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/durchblicker/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// spreads form submissions out a little so the session does not look
// like a hammering bot
func politePause() {
	ms, err := random.IntRange(200, 900)
	if err != nil {
		ms = 500
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// EstablishBase walks screens 1-3 of the calculator with the given
// Laufzeit and session parameters and returns a handle on the results
// screen. Screens are replayed from scratch on every call, Reset does
// not have to be called first.
func (c *Client) EstablishBase(ctx context.Context, laufzeitJahre int, params sweep.RunParameters) (sweep.ResultsScreen, error) {
	ctx, span := tracer.Start(ctx, "client:EstablishBase")
	defer span.End()

	err := c.openCalculator(ctx, laufzeitJahre, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "screen 1 failed")
		return nil, err
	}
	politePause()

	err = c.submitProjekt(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "screen 2 failed")
		return nil, err
	}
	politePause()

	err = c.submitHaushalt(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "screen 3 failed")
		return nil, err
	}
	politePause()

	screen := &resultsScreen{client: c, laufzeitJahre: laufzeitJahre}
	// make sure the results screen actually renders before handing it out
	_, err = screen.Fields(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "results screen unreachable")
		return nil, err
	}
	return screen, nil
}

// Reset drops the live calculator session. The next EstablishBase starts
// from a fresh cookie jar.
func (c *Client) Reset(ctx context.Context) error {
	c.token = ""
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.Http.SetCookieJar(jar)
	return nil
}

// screen 1: entry page, credit amount and duration. the page carries the
// csrf token all later submissions need.
func (c *Client) openCalculator(ctx context.Context, laufzeitJahre int, params sweep.RunParameters) error {
	res, err := c.Http.R().
		SetContext(ctx).
		Get("/kreditrechner")
	if err != nil {
		return err
	}
	if res.StatusCode() != 200 {
		return fmt.Errorf("open calculator: unexpected status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return err
	}
	token := doc.Find("input[name=_token]").AttrOr("value", "")
	if token == "" {
		return fmt.Errorf("open calculator: session token not found")
	}
	c.token = token

	slog.DebugContext(
		ctx, "submitting screen 1",
		"kreditbetrag", params.Kreditbetrag,
		"laufzeit_jahre", laufzeitJahre,
	)
	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"_token":       c.token,
			"kreditbetrag": strconv.FormatFloat(params.Kreditbetrag, 'f', 0, 64),
			"laufzeit":     strconv.Itoa(laufzeitJahre),
		}).
		Post("/kreditrechner/api/eckdaten")
	if err != nil {
		return err
	}
	if res.StatusCode() != 200 {
		return fmt.Errorf("submit screen 1: unexpected status %d", res.StatusCode())
	}
	return nil
}

// screen 2: project details. selection values match the calculator's
// form ids (select_immokredit_projekt_*).
func (c *Client) submitProjekt(ctx context.Context, params sweep.RunParameters) error {
	if c.token == "" {
		return ErrNoSession
	}
	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"_token":          c.token,
			"vorhaben":        "kauf",
			"suchphaseKauf":   "recherche",
			"immobilie":       "wohnung",
			"inBau":           "fertig",
			"lage":            "wien",
			"nutzung":         "eigen",
			"kaufpreis":       strconv.FormatFloat(params.Kaufpreis, 'f', 0, 64),
			"kaufnebenkosten": strconv.FormatFloat(params.Kaufnebenkosten, 'f', 0, 64),
			"eigenmittel":     strconv.FormatFloat(params.Eigenmittel, 'f', 0, 64),
		}).
		Post("/kreditrechner/api/projekt")
	if err != nil {
		return err
	}
	if res.StatusCode() != 200 {
		return fmt.Errorf("submit screen 2: unexpected status %d", res.StatusCode())
	}
	return nil
}

// screen 3: household situation.
func (c *Client) submitHaushalt(ctx context.Context, params sweep.RunParameters) error {
	if c.token == "" {
		return ErrNoSession
	}
	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"_token":         c.token,
			"alter":          strconv.Itoa(params.HaushaltAlter),
			"zweitePerson":   "false",
			"kinder":         "keine",
			"berufsituation": "erwerb",
			"einkommen":      strconv.FormatFloat(params.HaushaltEinkommen, 'f', 0, 64),
			"nutzflaeche":    strconv.Itoa(params.HaushaltNutzflaeche),
			"kreditraten":    strconv.FormatFloat(params.HaushaltKreditraten, 'f', 0, 64),
			"kfz":            "none",
		}).
		Post("/kreditrechner/api/haushalt")
	if err != nil {
		return err
	}
	if res.StatusCode() != 200 {
		return fmt.Errorf("submit screen 3: unexpected status %d", res.StatusCode())
	}
	return nil
}
