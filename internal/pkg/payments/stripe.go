package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ima-jin/imajin-coffee/internal/pkg/apperr"
	"github.com/ima-jin/imajin-coffee/internal/pkg/env"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com"

// StripeClient is an explicitly constructed client for the Stripe REST
// API. Base URL and timeout are injectable so tests can point it at a
// local server.
type StripeClient struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

// NewStripeClientFromEnv builds a client from STRIPE_SECRET_KEY and
// STRIPE_API_BASE_URL.
func NewStripeClientFromEnv() *StripeClient {
	return &StripeClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("STRIPE_API_BASE_URL", defaultStripeAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PaymentIntent is the subset of Stripe's payment intent object the
// ledger needs.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// PaymentIntentParams describes an intent to create. Metadata keys are
// stored verbatim on the provider side and echoed back in webhooks.
type PaymentIntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
	// TransferDestination routes funds to a connected account when
	// set. No platform cut is taken.
	TransferDestination string
}

// CreatePaymentIntent creates a payment intent with automatic payment
// methods enabled and returns its id and client secret.
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", strings.ToLower(params.Currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}
	if params.TransferDestination != "" {
		form.Set("transfer_data[destination]", params.TransferDestination)
	}

	var out PaymentIntent
	if err := c.post(ctx, "/v1/payment_intents", form, &out); err != nil {
		return nil, err
	}
	if out.ID == "" || out.ClientSecret == "" {
		return nil, apperr.New(apperr.KindUpstream, "Payment provider returned incomplete intent")
	}
	return &out, nil
}

// CheckoutSession is the subset of Stripe's checkout session object
// the checkout flow needs.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutSessionParams describes a hosted checkout session. When
// Recurring is set the session is created in subscription mode with a
// monthly interval.
type CheckoutSessionParams struct {
	Amount             int64
	Currency           string
	ProductName        string
	ProductDescription string
	Recurring          bool
	SuccessURL         string
	CancelURL          string
}

// CreateCheckoutSession creates a hosted checkout session and returns
// the redirect URL.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	if params.ProductDescription != "" {
		form.Set("line_items[0][price_data][product_data][description]", params.ProductDescription)
	}
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.Amount, 10))
	form.Set("line_items[0][quantity]", "1")
	if params.Recurring {
		form.Set("mode", "subscription")
		form.Set("line_items[0][price_data][recurring][interval]", "month")
	} else {
		form.Set("mode", "payment")
	}
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	var out CheckoutSession
	if err := c.post(ctx, "/v1/checkout/sessions", form, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, apperr.New(apperr.KindUpstream, "Payment provider returned no checkout URL")
	}
	return &out, nil
}

type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *StripeClient) post(ctx context.Context, path string, form url.Values, dest interface{}) error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("STRIPE_SECRET_KEY is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, "Payment provider unavailable", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var stripeErr stripeErrorResponse
		_ = json.Unmarshal(body, &stripeErr)
		return apperr.Wrap(apperr.KindUpstream, "Payment provider request failed",
			fmt.Errorf("stripe %s: status=%d type=%s code=%s message=%s",
				path, resp.StatusCode, stripeErr.Error.Type, stripeErr.Error.Code, stripeErr.Error.Message))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return apperr.Wrap(apperr.KindUpstream, "Payment provider returned malformed response", err)
	}
	return nil
}
