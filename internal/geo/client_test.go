package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, body string) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format param = %q", r.URL.Query().Get("format"))
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, 2*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("create geo client: %v", err)
	}
	return client
}

func TestReverseLocalityFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"city wins", `{"address":{"city":"Boston","town":"Brookline"}}`, "Boston"},
		{"town fallback", `{"address":{"town":"Brookline","village":"Chestnut Hill"}}`, "Brookline"},
		{"village fallback", `{"address":{"village":"Chestnut Hill"}}`, "Chestnut Hill"},
		{"nothing usable", `{"address":{}}`, UnknownLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.body)
			got, err := client.Reverse(context.Background(), 42.36, -71.06)
			if err != nil {
				t.Fatalf("Reverse() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Reverse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReverseUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, 2*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("create geo client: %v", err)
	}
	if _, err := client.Reverse(context.Background(), 0, 0); err == nil {
		t.Fatal("Reverse() should surface the upstream failure")
	}
}
