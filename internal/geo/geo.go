// Package geo detects the display currency from the caller's location.
package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const DefaultEndpoint = "https://ipapi.co"

// Detector looks up the country of an IP address
type Detector struct {
	endpoint string
	client   *http.Client
	fallback models.Currency
	log      *logrus.Entry
}

func NewDetector(endpoint string, timeout time.Duration, fallback models.Currency) *Detector {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if !fallback.Valid() {
		fallback = models.CurrencyUSD
	}
	return &Detector{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
		fallback: fallback,
		log:      logrus.WithField("component", "geo"),
	}
}

// Fallback is the currency used when detection fails
func (d *Detector) Fallback() models.Currency {
	return d.fallback
}

// Country returns the ISO country code of ip. An empty ip looks up the
// address the request originates from.
func (d *Detector) Country(ctx context.Context, ip string) (string, error) {
	url := d.endpoint + "/json/"
	if ip != "" {
		url = d.endpoint + "/" + ip + "/json/"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &models.ExternalServiceError{Service: "geo", Err: err}
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", &models.ExternalServiceError{Service: "geo", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", &models.ExternalServiceError{Service: "geo", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &models.ExternalServiceError{Service: "geo", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if gjson.GetBytes(body, "error").Bool() {
		return "", &models.ExternalServiceError{Service: "geo", Err: fmt.Errorf("lookup failed: %s", gjson.GetBytes(body, "reason").String())}
	}
	return gjson.GetBytes(body, "country_code").String(), nil
}

// Detect maps the caller's country to a currency: INR for India, USD otherwise
func (d *Detector) Detect(ctx context.Context, ip string) (models.Currency, error) {
	country, err := d.Country(ctx, ip)
	if err != nil {
		return "", err
	}
	if strings.EqualFold(country, "IN") {
		return models.CurrencyINR, nil
	}
	return models.CurrencyUSD, nil
}

// DetectOrFallback never fails; lookup errors are logged and the fallback
// currency is returned
func (d *Detector) DetectOrFallback(ctx context.Context, ip string) models.Currency {
	cur, err := d.Detect(ctx, ip)
	if err != nil {
		d.log.WithError(err).Debug("currency detection failed, using fallback")
		return d.fallback
	}
	return cur
}
