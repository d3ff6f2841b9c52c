package models

import (
	"encoding/json"
	"testing"
)

func TestIsValidHandle(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "ryan", want: true},
		{in: "ryan_codes_42", want: true},
		{in: "ab", want: false},
		{in: "Ryan", want: false},
		{in: "ryan-codes", want: false},
		{in: "", want: false},
		{in: "this_handle_is_way_too_long_to_be_valid", want: false},
	}

	for _, tt := range tests {
		if got := IsValidHandle(tt.in); got != tt.want {
			t.Fatalf("IsValidHandle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPaymentMethodsRailEnabled(t *testing.T) {
	m := PaymentMethods{
		Stripe: &StripeMethod{Enabled: true, AccountID: "acct_123"},
		Solana: &SolanaMethod{Enabled: false, Address: "So1ana"},
	}

	if !m.RailEnabled(RailStripe) {
		t.Fatalf("expected stripe rail to be enabled")
	}
	if m.RailEnabled(RailSolana) {
		t.Fatalf("expected solana rail to be disabled")
	}
	if m.RailEnabled("paypal") {
		t.Fatalf("expected unknown rail to be disabled")
	}
	if !m.HasEnabledRail() {
		t.Fatalf("expected at least one enabled rail")
	}

	var empty PaymentMethods
	if empty.HasEnabledRail() {
		t.Fatalf("expected no enabled rail on zero value")
	}
}

func TestPaymentMethodsScanRoundTrip(t *testing.T) {
	in := PaymentMethods{
		Stripe: &StripeMethod{Enabled: true, AccountID: "acct_123"},
	}

	value, err := in.Value()
	if err != nil {
		t.Fatalf("Value() failed: %v", err)
	}

	var out PaymentMethods
	if err := out.Scan(value); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if out.Stripe == nil || !out.Stripe.Enabled || out.Stripe.AccountID != "acct_123" {
		t.Fatalf("round trip lost stripe config: %+v", out)
	}
	if out.Solana != nil {
		t.Fatalf("expected absent solana config, got %+v", out.Solana)
	}

	// Unknown rails in stored JSON are dropped, not resurrected.
	var legacy PaymentMethods
	if err := legacy.Scan([]byte(`{"stripe":{"enabled":true},"paypal":{"enabled":true}}`)); err != nil {
		t.Fatalf("Scan() failed on legacy payload: %v", err)
	}
	if !legacy.RailEnabled(RailStripe) {
		t.Fatalf("expected stripe to survive legacy payload")
	}
}

func TestDefaultPresets(t *testing.T) {
	got := DefaultPresets()
	want := Presets{100, 500, 1000}
	if len(got) != len(want) {
		t.Fatalf("DefaultPresets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DefaultPresets() = %v, want %v", got, want)
		}
	}
}

func TestCoffeePageValidate(t *testing.T) {
	page := &CoffeePage{
		ID:     GenerateID("page"),
		DID:    "did:key:alice",
		Handle: "ryan",
		Title:  "Buy Ryan a coffee",
		PaymentMethods: PaymentMethods{
			Stripe: &StripeMethod{Enabled: true},
		},
	}
	if err := page.Validate(); err != nil {
		t.Fatalf("expected valid page, got %v", err)
	}

	page.Handle = "Not A Handle"
	if err := page.Validate(); err == nil {
		t.Fatalf("expected invalid handle to fail validation")
	}

	page.Handle = "ryan"
	page.PaymentMethods = PaymentMethods{}
	if err := page.Validate(); err == nil {
		t.Fatalf("expected page without rails to fail validation")
	}
}

func TestCoffeePageJSONShape(t *testing.T) {
	page := &CoffeePage{
		ID:     "page_abc",
		DID:    "did:key:alice",
		Handle: "ryan",
		Title:  "Buy Ryan a coffee",
		PaymentMethods: PaymentMethods{
			Solana: &SolanaMethod{Enabled: true, Address: "So1ana"},
		},
		Presets:  DefaultPresets(),
		IsPublic: true,
	}

	encoded, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"id", "did", "handle", "title", "paymentMethods", "presets", "isPublic"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("expected key %q in page JSON", key)
		}
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID("tip")
	b := GenerateID("tip")
	if a == b {
		t.Fatalf("expected unique ids, got %q twice", a)
	}
	if len(a) < 8 || a[:4] != "tip_" {
		t.Fatalf("expected tip_ prefix, got %q", a)
	}
}
