package httputil

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
)

// NewHTTPClient creates an HTTP client for auxiliary fetches such as
// robots.txt. An optional RoundTripper (e.g. StealthTransport) can be injected.
func NewHTTPClient(transport http.RoundTripper, timeout time.Duration) *http.Client {
	if transport == nil {
		transport = &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// DoWithRetry performs an HTTP request, retrying transport errors and 5xx
// responses with a linear backoff. The backoff stops early when the
// request context is done.
func DoWithRetry(client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("reset request body for retry: %w", err)
				}
				req.Body = body
			}
			select {
			case <-time.After(time.Duration(i) * 500 * time.Millisecond):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// MaxBodyBytes caps how much of a decoded body ReadBody returns.
const MaxBodyBytes = 1 << 20

// ReadBody reads and decodes a gzip or brotli response body, truncated to
// MaxBodyBytes.
func ReadBody(resp *http.Response) ([]byte, error) {
	var body io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer zr.Close()
		body = zr
	case "br":
		body = brotli.NewReader(resp.Body)
	}
	return io.ReadAll(io.LimitReader(body, MaxBodyBytes))
}
