package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nutri-auth/internal/domain"
)

// restClient is the shared REST plumbing for the Supabase gateways: tuned
// transport, service-role authentication and a bounded per-call timeout.
type restClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	timeout    time.Duration
}

func newRESTClient(baseURL, serviceKey string, timeout time.Duration) restClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return restClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Transport: transport},
		timeout:    timeout,
	}
}

// do issues one request and returns the status code and full body. The body
// is read before the per-call deadline is released.
func (c *restClient) do(ctx context.Context, method, path string, query url.Values, payload any, headers http.Header) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, classifyTransportError(err)
	}
	return resp.StatusCode, data, nil
}

// classifyTransportError separates deadline expiry from other network
// failures so callers can surface timeouts distinctly.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
}

// providerMessage digs a human-readable message out of the varying error
// shapes the platform returns: {"msg"}, {"message"}, {"error_description"}
// or {"error"}.
func providerMessage(status int, body []byte) string {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	for _, m := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.ErrorCode} {
		if m != "" {
			return m
		}
	}
	return fmt.Sprintf("status %d", status)
}
