package payments

import (
	"testing"
	"time"
)

func TestVerifyStripeWebhookSignature(t *testing.T) {
	payload := []byte(`{"type":"payment_intent.succeeded"}`)
	secret := "whsec_test"
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	header := SignStripeWebhookPayload(payload, secret, now)
	if !VerifyStripeWebhookSignature(payload, header, secret, now) {
		t.Fatalf("expected signature to validate")
	}

	if VerifyStripeWebhookSignature([]byte(`{"tampered":true}`), header, secret, now) {
		t.Fatalf("expected tampered payload to fail")
	}
	if VerifyStripeWebhookSignature(payload, header, "whsec_other", now) {
		t.Fatalf("expected wrong secret to fail")
	}
	if VerifyStripeWebhookSignature(payload, "", secret, now) {
		t.Fatalf("expected empty header to fail")
	}
	if VerifyStripeWebhookSignature(payload, header, "", now) {
		t.Fatalf("expected empty secret to fail")
	}
}

func TestVerifyStripeWebhookSignature_Tolerance(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	signedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	header := SignStripeWebhookPayload(payload, secret, signedAt)

	if !VerifyStripeWebhookSignature(payload, header, secret, signedAt.Add(SignatureTolerance-time.Second)) {
		t.Fatalf("expected signature within tolerance to validate")
	}
	if VerifyStripeWebhookSignature(payload, header, secret, signedAt.Add(SignatureTolerance+time.Minute)) {
		t.Fatalf("expected stale signature to fail")
	}
	if VerifyStripeWebhookSignature(payload, header, secret, signedAt.Add(-SignatureTolerance-time.Minute)) {
		t.Fatalf("expected future-dated signature to fail")
	}
}

func TestVerifyStripeWebhookSignature_MalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	now := time.Now()

	for _, header := range []string{
		"v1=deadbeef",
		"t=notanumber,v1=deadbeef",
		"t=1748779200",
		"t=1748779200,v1=zzzz",
		"garbage",
	} {
		if VerifyStripeWebhookSignature(payload, header, secret, now) {
			t.Fatalf("expected malformed header %q to fail", header)
		}
	}
}
