package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/etrheim/energy-load-dashboard/internal/forecast"
)

// UpstreamSource pulls load samples from an external forecast service.
type UpstreamSource struct {
	baseURL string
	country string
	client  *http.Client
	loc     *time.Location
	log     logrus.FieldLogger
	backoff backoffConfig
	circuit *gobreaker.CircuitBreaker
}

func NewUpstreamSource(baseURL, country string, client *http.Client, loc *time.Location, log logrus.FieldLogger) *UpstreamSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "upstream-forecast",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if loc == nil {
		loc = time.UTC
	}

	return &UpstreamSource{
		baseURL: baseURL,
		country: country,
		client:  client,
		loc:     loc,
		log:     log,
		backoff: backoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
	}
}

// Latest fetches the newest sample covering the given number of hours.
func (s *UpstreamSource) Latest(ctx context.Context, hours int) (forecast.Sample, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("hours", strconv.Itoa(hours))
		if s.country != "" {
			values.Set("country", s.country)
		}

		u := fmt.Sprintf("%s?%s", s.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := fetchWithResilience(ctx, s.client, s.backoff, s.circuit, s.log, buildRequest)
	if err != nil {
		return forecast.Sample{}, fmt.Errorf("upstream fetch: %w", err)
	}
	defer resp.Body.Close()

	sample, err := forecast.DecodeSample(resp.Body, s.loc)
	if err != nil {
		return forecast.Sample{}, fmt.Errorf("upstream payload: %w", err)
	}
	return sample, nil
}
