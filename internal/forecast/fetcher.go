package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Fetch failure taxonomy. Callers classify with errors.Is.
var (
	// ErrNetwork wraps transport-level failures reaching the endpoint.
	ErrNetwork = errors.New("forecast endpoint unreachable")
	// ErrStatus wraps non-2xx responses.
	ErrStatus = errors.New("unexpected status from forecast endpoint")
	// ErrParse wraps payloads that are not valid JSON or do not match
	// the expected shape.
	ErrParse = errors.New("malformed forecast payload")
)

// Fetcher retrieves the latest sample from a configured endpoint. One
// call is exactly one network attempt; retry policy, if any, belongs to
// the caller. The injected client owns any deadline.
type Fetcher struct {
	url    string
	client *http.Client
	loc    *time.Location
}

// NewFetcher creates a Fetcher polling url with client.
func NewFetcher(url string, client *http.Client, loc *time.Location) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{url: url, client: client, loc: loc}
}

// Fetch issues a single GET and decodes the payload.
func (f *Fetcher) Fetch(ctx context.Context) (Sample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Sample{}, fmt.Errorf("%w: got %d", ErrStatus, resp.StatusCode)
	}

	return DecodeSample(resp.Body, f.loc)
}

// Classify maps a fetch failure onto its taxonomy label for logs and
// metrics.
func Classify(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrParse):
		return "parse"
	default:
		return "other"
	}
}
