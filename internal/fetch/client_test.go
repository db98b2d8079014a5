package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/nsmarchive/internal/model"
)

// TestClientGet tests fetching with status and size handling.
func TestClientGet(t *testing.T) {
	t.Parallel()

	t.Run("returns the body and sends headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("User-Agent") != "test-agent" {
				t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
			}
			if r.Header.Get("X-Extra") != "1" {
				t.Errorf("expected extra header")
			}
			_, _ = w.Write([]byte("hello"))
		}))
		defer server.Close()

		c, err := NewClient(WithUserAgent("test-agent"), WithHeaders(map[string]string{"X-Extra": "1"}))
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		body, err := c.GetString(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != "hello" {
			t.Errorf("expected hello, got %q", body)
		}
	})

	t.Run("non-2xx is a network error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		c, err := NewClient()
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		_, err = c.Get(context.Background(), server.URL)
		if !errors.Is(err, model.ErrNetwork) {
			t.Fatalf("expected network error, got %v", err)
		}
		var se *StatusError
		if !errors.As(err, &se) || se.Code != http.StatusNotFound {
			t.Errorf("expected 404 status error, got %v", err)
		}
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer server.Close()

		c, err := NewClient(WithMaxBodySize(10))
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		_, err = c.Get(context.Background(), server.URL)
		if !errors.Is(err, ErrBodyTooLarge) || !errors.Is(err, model.ErrNetwork) {
			t.Errorf("expected body too large network error, got %v", err)
		}
	})

	t.Run("request deadline is enforced", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		c, err := NewClient(WithTimeout(50 * time.Millisecond))
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		start := time.Now()
		_, err = c.Get(context.Background(), server.URL)
		if !errors.Is(err, model.ErrNetwork) {
			t.Fatalf("expected network error, got %v", err)
		}
		if time.Since(start) > 5*time.Second {
			t.Error("deadline was not applied")
		}
	})

	t.Run("connection refused is a network error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		c, err := NewClient(WithTimeout(2 * time.Second))
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		if _, err := c.Get(context.Background(), url); !errors.Is(err, model.ErrNetwork) {
			t.Errorf("expected network error, got %v", err)
		}
	})
}

// TestNewClientProxy tests proxy transport construction.
func TestNewClientProxy(t *testing.T) {
	t.Parallel()

	c, err := NewClient(WithSOCKS5Proxy("127.0.0.1:9050"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	transport, ok := c.http.Transport.(*http.Transport)
	if !ok {
		t.Fatal("expected *http.Transport")
	}
	if transport.DialContext == nil {
		t.Error("expected proxy dialer to be installed")
	}
	if transport.Proxy != nil {
		t.Error("expected environment proxy to be disabled")
	}
}
