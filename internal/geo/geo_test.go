package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/49.37.0.1/json/":
			w.Write([]byte(`{"ip":"49.37.0.1","country_code":"IN","currency":"INR"}`))
		case "/8.8.8.8/json/":
			w.Write([]byte(`{"ip":"8.8.8.8","country_code":"US"}`))
		case "/10.0.0.1/json/":
			w.Write([]byte(`{"error":true,"reason":"Reserved IP Address"}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	d := NewDetector(srv.URL, time.Second, "")
	ctx := context.Background()

	cur, err := d.Detect(ctx, "49.37.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyINR, cur)

	cur, err = d.Detect(ctx, "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyUSD, cur)

	_, err = d.Detect(ctx, "10.0.0.1")
	var ext *models.ExternalServiceError
	assert.ErrorAs(t, err, &ext)

	_, err = d.Detect(ctx, "")
	assert.ErrorAs(t, err, &ext)
	assert.Equal(t, models.CurrencyUSD, d.DetectOrFallback(ctx, ""))
}

func TestDetectUnreachable(t *testing.T) {
	d := NewDetector("http://127.0.0.1:1", 100*time.Millisecond, models.CurrencyINR)
	assert.Equal(t, models.CurrencyINR, d.DetectOrFallback(context.Background(), "8.8.8.8"))
}
