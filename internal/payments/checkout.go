// Package payments creates hosted-checkout sessions with the payment
// provider. The provider hosts the payment page; we only hold the session
// id and the redirect URL.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Plan describes a purchasable plan.
type Plan struct {
	ID      string
	Tier    string // "pro" for subscriptions, "" for credit packs
	Credits int    // credits granted for credit packs
}

// Plans is the purchasable catalog. Webhook handling resolves grants
// against this table, never against client-supplied values.
var Plans = map[string]Plan{
	"pro_monthly": {ID: "pro_monthly", Tier: "pro"},
	"credits_1":   {ID: "credits_1", Credits: 1},
	"credits_5":   {ID: "credits_5", Credits: 5},
}

// ErrCheckoutFailed wraps any provider-side session creation failure.
var ErrCheckoutFailed = errors.New("checkout creation failed")

// Session is a created checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Options struct {
	BaseURL    string
	APIKey     string
	SuccessURL string
	HTTPClient *http.Client
}

// Client talks to the checkout provider's session API.
type Client struct {
	baseURL    string
	apiKey     string
	successURL string
	client     *http.Client
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("checkout base url is required")
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("checkout api key is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    base,
		apiKey:     strings.TrimSpace(opts.APIKey),
		successURL: opts.SuccessURL,
		client:     client,
	}, nil
}

type createSessionRequest struct {
	PlanID     string `json:"plan_id"`
	UserID     string `json:"client_reference_id"`
	SuccessURL string `json:"success_url"`
}

// CreateSession creates a hosted checkout session for the plan.
func (c *Client) CreateSession(ctx context.Context, userID, planID string) (*Session, error) {
	if _, ok := Plans[planID]; !ok {
		return nil, fmt.Errorf("%w: unknown plan %q", ErrCheckoutFailed, planID)
	}
	body, err := json.Marshal(createSessionRequest{
		PlanID:     planID,
		UserID:     userID,
		SuccessURL: c.successURL,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrCheckoutFailed, resp.StatusCode)
	}
	var out Session
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCheckoutFailed, err)
	}
	if out.ID == "" || out.URL == "" {
		return nil, fmt.Errorf("%w: incomplete session", ErrCheckoutFailed)
	}
	return &out, nil
}
