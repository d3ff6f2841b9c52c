package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ima-jin/imajin-coffee/internal/pkg/apperr"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return &Client{
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}, srv
}

func TestValidate_ValidToken(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/validate" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["token"] != "tok_abc" {
			t.Fatalf("expected token tok_abc, got %q", req["token"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"valid":true,"identity":{"id":"did:key:alice","type":"human","name":"Alice"}}`))
	})
	defer srv.Close()

	ident, err := client.Validate(context.Background(), "tok_abc")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if ident.ID != "did:key:alice" || ident.Type != "human" {
		t.Fatalf("unexpected identity %+v", ident)
	}
}

func TestValidate_InvalidToken(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valid":false}`))
	})
	defer srv.Close()

	_, err := client.Validate(context.Background(), "tok_bad")
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestValidate_RejectedStatus(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()

	_, err := client.Validate(context.Background(), "tok_bad")
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestValidate_EmptyToken(t *testing.T) {
	client := &Client{BaseURL: "http://localhost:0", HTTPClient: http.DefaultClient}
	_, err := client.Validate(context.Background(), "")
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestValidate_ServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := &Client{BaseURL: srv.URL, HTTPClient: &http.Client{Timeout: time.Second}}
	_, err := client.Validate(context.Background(), "tok_abc")
	if apperr.KindOf(err) != apperr.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
