package prizm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// LookupError reports a get_segment call that produced no usable segment.
// Status is zero when no HTTP response was received.
type LookupError struct {
	PostalCode string
	Status     int
	Reason     string
	Err        error
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("prizm: lookup %q", e.PostalCode)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Client calls the PRIZM postal-code segment endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the service rooted at baseURL. Each request
// is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetSegment fetches and classifies the segment for one postal code.
// Any failure, including an Unrecognized payload, is returned as *LookupError.
func (c *Client) GetSegment(ctx context.Context, postalCode string) (Response, error) {
	endpoint := fmt.Sprintf("%s/get_segment?postal_code=%s", c.baseURL, url.QueryEscape(postalCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, &LookupError{PostalCode: postalCode, Reason: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, &LookupError{PostalCode: postalCode, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Response{}, &LookupError{PostalCode: postalCode, Status: resp.StatusCode, Reason: "non-success status"}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, &LookupError{PostalCode: postalCode, Status: resp.StatusCode, Reason: "read body", Err: err}
	}

	r, err := Classify(body)
	if err != nil {
		return Response{}, &LookupError{PostalCode: postalCode, Status: resp.StatusCode, Err: err}
	}
	if r.Kind == Unrecognized {
		return r, &LookupError{PostalCode: postalCode, Status: resp.StatusCode, Reason: r.Reason}
	}
	return r, nil
}
