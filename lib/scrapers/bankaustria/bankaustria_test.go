package bankaustria

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const responseFixture = `{
	"status": "success",
	"data": {
		"Auszahlungsbetrag": 295000.00,
		"Rate": 1675.43,
		"Sollzinssatz": 3.0,
		"Effektivzinssatz": 3.342,
		"Gesamtkreditbetrag": 502629.00,
		"Bearbeitungsspesen": 3750.00,
		"paymentsTotal": 300
	},
	"params": {
		"accountFeeMonthly": 7.13,
		"processingFeePerc": 1.25
	}
}`

func TestDecodeResponse(t *testing.T) {
	var body response
	require.NoError(t, json.Unmarshal([]byte(responseFixture), &body))

	require.Equal(t, "success", body.Status)
	require.Equal(t, 1675.43, body.Data.Rate)
	require.Equal(t, 3.342, body.Data.Effektivzinssatz)
	require.Equal(t, 502629.00, body.Data.Gesamtkreditbetrag)
	require.Equal(t, 300, body.Data.PaymentsTotal)
}

func TestDecodeErrorStatus(t *testing.T) {
	var body response
	require.NoError(t, json.Unmarshal([]byte(`{"status":"error"}`), &body))
	require.NotEqual(t, "success", body.Status)
}
