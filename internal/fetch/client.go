package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/nsmarchive/internal/model"
)

const (
	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxBodySize caps a single response body.
	DefaultMaxBodySize = 64 * 1024 * 1024

	// DefaultUserAgent identifies the archiver in request logs.
	DefaultUserAgent = "nsmarchive/1.0 (+https://github.com/nao1215/nsmarchive)"

	maxRedirects = 10
)

// ErrBodyTooLarge is returned when a response exceeds the configured cap.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Client fetches documents and files over HTTP.
type Client struct {
	http        *http.Client
	timeout     time.Duration
	userAgent   string
	headers     map[string]string
	maxBodySize int64
	proxyAddr   string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request deadline. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithMaxBodySize sets the response size cap. Non-positive values are ignored.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithSOCKS5Proxy routes every connection through the SOCKS5 proxy at
// addr ("host:port").
func WithSOCKS5Proxy(addr string) Option {
	return func(c *Client) {
		c.proxyAddr = addr
	}
}

// WithHTTPClient replaces the underlying http.Client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a Client with its own transport.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		headers:     make(map[string]string),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		transport, err := c.newTransport()
		if err != nil {
			return nil, err
		}
		c.http = &http.Client{
			Transport: transport,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	return c, nil
}

// newTransport builds a dedicated transport, dialing through the proxy
// when one is configured.
func (c *Client) newTransport() (*http.Transport, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 15 * time.Second,
	}

	if c.proxyAddr == "" {
		return transport, nil
	}

	dialer, err := proxy.SOCKS5("tcp", c.proxyAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	transport.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	return transport, nil
}

// Get fetches url and returns the full body. Transport failures, deadline
// expiry, non-2xx statuses and oversized bodies all wrap model.ErrNetwork.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, model.NetworkError(url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, model.NetworkError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096) //nolint:errcheck // best effort
		return nil, model.NetworkError(url, &StatusError{Code: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, model.NetworkError(url, err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, model.NetworkError(url, ErrBodyTooLarge)
	}

	return body, nil
}

// GetString is Get returning the body as a string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// CloseIdleConnections releases idle connections held by the client.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

