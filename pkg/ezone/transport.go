package ezone

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultPort is the port the eZone controller listens on.
const DefaultPort = 2025

// DefaultTimeout is the time limit for a single request to the controller.
const DefaultTimeout = 4 * time.Second

// Transport issues a single GET request against the controller and returns the response body.
// It does not retry.
type Transport interface {
	Get(ctx context.Context, path string, params url.Values) (string, error)
}

var _ Transport = &HTTPTransport{}

// HTTPTransport performs requests against http://<host>:<port>.
type HTTPTransport struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewHTTPTransport returns a Transport for the controller at host:port. If httpClient is nil, http.DefaultClient is used.
func NewHTTPTransport(host string, port int, httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTransport{
		BaseURL:    "http://" + net.JoinHostPort(host, strconv.Itoa(port)),
		HTTPClient: httpClient,
		Timeout:    DefaultTimeout,
	}
}

// Get performs the request. Any failure is returned as a *TransportError.
func (t *HTTPTransport) Get(ctx context.Context, path string, params url.Values) (string, error) {
	target := t.BaseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", &TransportError{Path: path, Err: err}
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return "", &TransportError{Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Path: path, Err: err}
	}
	return string(body), nil
}
