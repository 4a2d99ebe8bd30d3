package durchblicker

import (
	"kreditradar-backend/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/durchblicker")

// SetRestyInstrumentOutput dumps every http exchange of the client to
// `out` for debugging, pass nil to disable.
func (c *Client) SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyutil.DumpExchanges(c.Http, out)
}
