package payments

import (
	"encoding/json"
)

// Provider event types the reconciler acts on.
const (
	EventTypePaymentSucceeded = "payment_intent.succeeded"
	EventTypePaymentFailed    = "payment_intent.payment_failed"
)

// EventKind is the closed set of recognized webhook event variants.
// Everything outside the known set decodes to EventKindUnknown, which
// the reconciler acknowledges without mutation.
type EventKind int

const (
	EventKindUnknown EventKind = iota
	EventKindPaymentSucceeded
	EventKindPaymentFailed
)

// PaymentEvent is a decoded provider event. TipID comes from the
// intent metadata written at initiation time; it may be empty when the
// event belongs to a payment this system did not create.
type PaymentEvent struct {
	Kind            EventKind
	Type            string
	EventID         string
	PaymentIntentID string
	TipID           string
}

type rawStripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ParsePaymentEvent decodes a verified webhook payload into the closed
// event set. Only call this after signature verification.
func ParsePaymentEvent(payload []byte) (*PaymentEvent, error) {
	var raw rawStripeEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}

	event := &PaymentEvent{
		Type:            raw.Type,
		EventID:         raw.ID,
		PaymentIntentID: raw.Data.Object.ID,
		TipID:           raw.Data.Object.Metadata["tipId"],
	}

	switch raw.Type {
	case EventTypePaymentSucceeded:
		event.Kind = EventKindPaymentSucceeded
	case EventTypePaymentFailed:
		event.Kind = EventKindPaymentFailed
	default:
		event.Kind = EventKindUnknown
	}
	return event, nil
}
