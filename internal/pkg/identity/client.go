// Package identity exchanges bearer credentials for verified
// identities by calling the external identity service. There is no
// local cache: every check round-trips, so availability is coupled to
// that service.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ima-jin/imajin-coffee/internal/pkg/apperr"
	"github.com/ima-jin/imajin-coffee/internal/pkg/env"
)

const defaultAuthServiceURL = "http://localhost:3003"

// Identity is a verified DID as returned by the identity service.
type Identity struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "human" or "agent"
	Name string `json:"name,omitempty"`
}

// Client talks to the identity service. It is constructed explicitly
// and injected wherever token verification is needed.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from AUTH_SERVICE_URL.
func NewClientFromEnv() *Client {
	return &Client{
		BaseURL: strings.TrimRight(env.GetEnv("AUTH_SERVICE_URL", defaultAuthServiceURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid    bool      `json:"valid"`
	Identity *Identity `json:"identity"`
}

// Validate verifies a bearer token against the identity service.
// Invalid or expired tokens return an unauthorized error; transport
// and non-2xx failures surface as upstream errors.
func (c *Client) Validate(ctx context.Context, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperr.New(apperr.KindUnauthorized, "Missing authorization token")
	}

	payload, err := json.Marshal(validateRequest{Token: token})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/validate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "Identity service unavailable", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.New(apperr.KindUnauthorized, "Invalid or expired token")
	}

	var out validateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "Identity service returned malformed response", err)
	}
	if !out.Valid || out.Identity == nil || out.Identity.ID == "" {
		return nil, apperr.New(apperr.KindUnauthorized, "Invalid or expired token")
	}
	return out.Identity, nil
}
