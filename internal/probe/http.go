package probe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/status-beacon/beacon/internal/models"
)

const maxBodyBytes = 64 * 1024

// Observation is the outcome of one visit to a service's status page.
// Classification is transport-level only: parsing provider payloads into
// richer status values belongs to external adapters, which report through
// the ingestion API instead.
type Observation struct {
	Status models.ServiceStatus
	Raw    []byte
}

// FetchStatusPage visits the status page URL and classifies the transport
// outcome: unreachable or client errors are unknown (we cannot read the
// page, which says nothing about the provider), 5xx is a major outage of the
// status page itself, 2xx means the page is up. The response body is kept
// verbatim for audit, wrapped so it is always valid JSON for storage.
func FetchStatusPage(ctx context.Context, url string, timeout time.Duration) Observation {
	client := &http.Client{
		Timeout: timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return Observation{Status: models.StatusUnknown, Raw: wrapRaw(nil, err.Error())}
	}

	resp, err := client.Do(req)

	if err != nil {
		return Observation{Status: models.StatusUnknown, Raw: wrapRaw(nil, err.Error())}
	}

	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	var status models.ServiceStatus

	switch {
	case resp.StatusCode >= 500:
		status = models.StatusMajorOutage
	case resp.StatusCode >= 300:
		status = models.StatusUnknown
	default:
		status = models.StatusOperational
	}

	return Observation{Status: status, Raw: wrapRaw(body, "")}
}

// wrapRaw makes the captured payload safe for a jsonb column: a body that is
// already valid JSON is stored as-is, anything else is wrapped.
func wrapRaw(body []byte, fetchErr string) []byte {
	if fetchErr != "" {
		raw, _ := json.Marshal(map[string]string{"error": fetchErr})
		return raw
	}

	if json.Valid(body) {
		return body
	}

	raw, _ := json.Marshal(map[string]string{"body": string(body)})
	return raw
}
