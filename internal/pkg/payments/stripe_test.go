package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ima-jin/imajin-coffee/internal/pkg/apperr"
)

func newTestStripeClient(handler http.HandlerFunc) (*StripeClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := &StripeClient{
		SecretKey:  "sk_test_123",
		APIBaseURL: srv.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
	return client, srv
}

func TestCreatePaymentIntent(t *testing.T) {
	var gotForm url.Values
	var gotAuth string

	client, srv := newTestStripeClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = r.PostForm
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret_xyz","status":"requires_payment_method"}`))
	})
	defer srv.Close()

	intent, err := client.CreatePaymentIntent(context.Background(), PaymentIntentParams{
		Amount:   500,
		Currency: "USD",
		Metadata: map[string]string{
			"tipId":    "tip_abc",
			"fromName": "Anonymous",
		},
		TransferDestination: "acct_456",
	})
	if err != nil {
		t.Fatalf("CreatePaymentIntent failed: %v", err)
	}
	if intent.ID != "pi_123" || intent.ClientSecret != "pi_123_secret_xyz" {
		t.Fatalf("unexpected intent %+v", intent)
	}

	if gotAuth != "Bearer sk_test_123" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotForm.Get("amount") != "500" {
		t.Fatalf("expected amount=500, got %q", gotForm.Get("amount"))
	}
	if gotForm.Get("currency") != "usd" {
		t.Fatalf("expected lowercased currency, got %q", gotForm.Get("currency"))
	}
	if gotForm.Get("automatic_payment_methods[enabled]") != "true" {
		t.Fatalf("expected automatic payment methods enabled")
	}
	if gotForm.Get("metadata[tipId]") != "tip_abc" {
		t.Fatalf("expected tip id metadata, got %q", gotForm.Get("metadata[tipId]"))
	}
	if gotForm.Get("transfer_data[destination]") != "acct_456" {
		t.Fatalf("expected transfer destination, got %q", gotForm.Get("transfer_data[destination]"))
	}
}

func TestCreatePaymentIntent_UpstreamError(t *testing.T) {
	client, srv := newTestStripeClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	})
	defer srv.Close()

	_, err := client.CreatePaymentIntent(context.Background(), PaymentIntentParams{Amount: 100, Currency: "usd"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if apperr.KindOf(err) != apperr.KindUpstream {
		t.Fatalf("expected upstream kind, got %v", apperr.KindOf(err))
	}
}

func TestCreatePaymentIntent_MissingSecretKey(t *testing.T) {
	client := &StripeClient{APIBaseURL: "http://localhost:0", HTTPClient: http.DefaultClient}
	if _, err := client.CreatePaymentIntent(context.Background(), PaymentIntentParams{Amount: 100, Currency: "usd"}); err == nil {
		t.Fatalf("expected missing key to fail")
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotForm url.Values

	client, srv := newTestStripeClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_123","url":"https://checkout.stripe.test/cs_123"}`))
	})
	defer srv.Close()

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		Amount:      1000,
		Currency:    "usd",
		ProductName: "Support Imajin",
		SuccessURL:  "https://coffee.test/success",
		CancelURL:   "https://coffee.test",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession failed: %v", err)
	}
	if session.URL != "https://checkout.stripe.test/cs_123" {
		t.Fatalf("unexpected session url %q", session.URL)
	}

	if gotForm.Get("mode") != "payment" {
		t.Fatalf("expected one-shot payment mode, got %q", gotForm.Get("mode"))
	}
	if gotForm.Get("line_items[0][price_data][unit_amount]") != "1000" {
		t.Fatalf("expected unit amount 1000, got %q", gotForm.Get("line_items[0][price_data][unit_amount]"))
	}
	if gotForm.Get("success_url") != "https://coffee.test/success" {
		t.Fatalf("unexpected success url %q", gotForm.Get("success_url"))
	}
}

func TestCreateCheckoutSession_Recurring(t *testing.T) {
	var gotForm url.Values

	client, srv := newTestStripeClient(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"id":"cs_456","url":"https://checkout.stripe.test/cs_456"}`))
	})
	defer srv.Close()

	_, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		Amount:      500,
		Currency:    "usd",
		ProductName: "Support Imajin",
		Recurring:   true,
		SuccessURL:  "https://coffee.test/success",
		CancelURL:   "https://coffee.test",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession failed: %v", err)
	}

	if gotForm.Get("mode") != "subscription" {
		t.Fatalf("expected subscription mode, got %q", gotForm.Get("mode"))
	}
	if gotForm.Get("line_items[0][price_data][recurring][interval]") != "month" {
		t.Fatalf("expected monthly interval, got %q", gotForm.Get("line_items[0][price_data][recurring][interval]"))
	}
}
