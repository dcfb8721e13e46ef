package predict

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-laptops/models"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "https://inference.test/prod/predict-price"

func sampleRow() *models.CleanRow {
	return &models.CleanRow{
		BrandName:       "lenovo",
		ProcFreq:        models.Float(1.2),
		ProcBrand:       "amd",
		ProcName:        "amd",
		ProcCount:       models.Float(2),
		Videocard:       "radeon",
		VideocardMemory: models.Float(8),
		Screen:          models.Float(11),
		SSDVolume:       0,
		RAM:             models.Float(4),
		HDMI:            true,
		Material:        "пластик",
		BatteryLife:     models.Float(8),
	}
}

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client := NewClient(testEndpoint, "secret", 5*time.Second)
	client.client.SetTransport(transport)
	return client, transport
}

type fixedRegressor struct {
	loc, logScale float64
	err           error
}

func (r fixedRegressor) PredictParams(*models.CleanRow) (float64, float64, error) {
	return r.loc, r.logScale, r.err
}

func TestConfidenceInterval(t *testing.T) {
	ci := ConfidenceInterval(10, 0)
	require.Equal(t, 10.0, ci.Mean)
	require.InDelta(t, 8.05, ci.Lower, 1e-12)
	require.InDelta(t, 11.95, ci.Upper, 1e-12)

	ci = ConfidenceInterval(10, math.Log(0.1))
	require.InDelta(t, 10-0.195, ci.Lower, 1e-12)
	require.InDelta(t, 10+0.195, ci.Upper, 1e-12)
}

func TestLocal(t *testing.T) {
	t.Run("inverse log transform", func(t *testing.T) {
		local := Local{Regressor: fixedRegressor{loc: 10.308952660644293, logScale: math.Log(0.1)}}
		got, err := local.Predict(context.Background(), sampleRow())
		require.NoError(t, err)
		require.InDelta(t, math.Expm1(10.308952660644293-0.195), got.Min, 1e-6)
		require.InDelta(t, math.Expm1(10.308952660644293+0.195), got.Max, 1e-6)
		require.Less(t, got.Min, got.Max)
	})

	t.Run("regressor error", func(t *testing.T) {
		errModel := errors.New("model unavailable")
		local := Local{Regressor: fixedRegressor{err: errModel}}
		_, err := local.Predict(context.Background(), sampleRow())
		require.ErrorIs(t, err, errModel)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Local{Regressor: fixedRegressor{}}.Predict(ctx, sampleRow())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestBaseline(t *testing.T) {
	rows := []*models.CleanRow{
		{BrandName: "acer", PriceLog: models.Float(10)},
		{BrandName: "acer", PriceLog: models.Float(12)},
		{BrandName: "asus", PriceLog: models.Float(11)},
		{BrandName: "msi"},
	}
	baseline, err := FitBaseline(rows)
	require.NoError(t, err)

	loc, logScale, err := baseline.PredictParams(&models.CleanRow{BrandName: "acer"})
	require.NoError(t, err)
	require.InDelta(t, 11, loc, 1e-12)
	require.InDelta(t, 0, logScale, 1e-12)

	loc, _, err = baseline.PredictParams(&models.CleanRow{BrandName: "msi"})
	require.NoError(t, err)
	require.InDelta(t, 11, loc, 1e-12, "unseen brand falls back to the global mean")

	loc, logScale, err = baseline.PredictParams(&models.CleanRow{BrandName: "asus"})
	require.NoError(t, err)
	require.InDelta(t, 11, loc, 1e-12)
	require.InDelta(t, math.Log(minScale), logScale, 1e-9)

	_, err = FitBaseline([]*models.CleanRow{{BrandName: "acer"}})
	require.ErrorIs(t, err, ErrNoTrainingRows)
}

func TestClientPredict(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, transport := newTestClient(t)

		var body map[string]any
		var apiKey string
		transport.RegisterResponder(http.MethodPost, testEndpoint, func(req *http.Request) (*http.Response, error) {
			apiKey = req.Header.Get("x-api-key")
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, err
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]float64{
				"min_price": 25000.5,
				"max_price": 41000.25,
			})
		})

		got, err := client.Predict(context.Background(), sampleRow())
		require.NoError(t, err)
		require.Equal(t, Range{Min: 25000.5, Max: 41000.25}, got)
		require.Equal(t, "secret", apiKey)
		require.Equal(t, "lenovo", body["brand_name"])
		require.Equal(t, true, body["hdmi"])
		require.Equal(t, "пластик", body["material"])
		require.NotContains(t, body, "priceLog")
	})

	t.Run("server error", func(t *testing.T) {
		client, transport := newTestClient(t)
		transport.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(http.StatusForbidden, `{"message":"Forbidden"}`))

		_, err := client.Predict(context.Background(), sampleRow())
		require.Error(t, err)
		require.Contains(t, err.Error(), "403")
	})

	t.Run("missing bounds", func(t *testing.T) {
		client, transport := newTestClient(t)
		transport.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(http.StatusOK, `{"min_price": 1}`))

		_, err := client.Predict(context.Background(), sampleRow())
		require.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("not json", func(t *testing.T) {
		client, transport := newTestClient(t)
		transport.RegisterResponder(http.MethodPost, testEndpoint, httpmock.NewStringResponder(http.StatusOK, `internal error`))

		_, err := client.Predict(context.Background(), sampleRow())
		require.ErrorIs(t, err, ErrMalformedResponse)
	})
}
