package durchblicker

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"kreditradar-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// resultsScreen is a live handle on screen 4. The calculator keeps both
// sliders adjustable in place, so one established session serves every
// Fixierung value of a Laufzeit.
type resultsScreen struct {
	client        *Client
	laufzeitJahre int
	fixierung     int
}

func (s *resultsScreen) SetFixierung(ctx context.Context, jahre int) error {
	ctx, span := tracer.Start(ctx, "resultsScreen:SetFixierung")
	defer span.End()

	if s.client.token == "" {
		return ErrNoSession
	}
	res, err := s.client.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"_token":         s.client.token,
			"laufzeitslider": strconv.Itoa(s.laufzeitJahre),
			"fixverzinsung":  strconv.Itoa(jahre),
		}).
		Post("/kreditrechner/api/ergebnis/slider")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "slider update failed")
		return err
	}
	if res.StatusCode() != 200 {
		err = fmt.Errorf("set fixierung: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "slider update failed")
		return err
	}
	s.fixierung = jahre
	return nil
}

// Fields fetches the results screen and returns the Finanzierungsdetails
// grid as a label → display-string mapping, exactly as rendered.
func (s *resultsScreen) Fields(ctx context.Context) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "resultsScreen:Fields")
	defer span.End()

	if s.client.token == "" {
		return nil, ErrNoSession
	}
	res, err := s.client.Http.R().
		SetContext(ctx).
		SetQueryParam("fixverzinsung", strconv.Itoa(s.fixierung)).
		Get("/kreditrechner/ergebnis")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch results screen")
		return nil, err
	}
	if res.StatusCode() != 200 {
		err = fmt.Errorf("fetch results: unexpected status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch results screen")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse results html")
		return nil, err
	}
	return parseFinanzierungsdetails(doc)
}

// parseFinanzierungsdetails pulls the label/value rows out of the
// Finanzierungsdetails component. Rows with an empty label or value are
// dropped, interpretation is left to the extraction layer.
func parseFinanzierungsdetails(doc *goquery.Document) (map[string]string, error) {
	details := doc.Find(`[data-component="Finanzierungsdetails"]`).First()
	if details.Length() == 0 {
		return nil, fmt.Errorf("results screen has no Finanzierungsdetails component")
	}

	fields := map[string]string{}
	details.Find("div.grid").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("div")
		if cells.Length() < 2 {
			return
		}
		label := htmlutil.CleanText(htmlutil.GetText(cells.First().Nodes[0]))
		value := htmlutil.CleanText(htmlutil.GetText(cells.Last().Nodes[0]))
		if label == "" || value == "" {
			return
		}
		if _, taken := fields[label]; !taken {
			fields[label] = value
		}
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("Finanzierungsdetails component has no readable rows")
	}
	return fields, nil
}
