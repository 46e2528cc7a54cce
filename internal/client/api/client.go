package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/billyrestey/golfstrategy/internal/domain"
	"github.com/billyrestey/golfstrategy/internal/ghin"
)

// defaultTimeout bounds every backend call so a hung request cannot leave
// the client stuck in a loading state.
const defaultTimeout = 10 * time.Second

// ErrorKind classifies backend failures so callers can branch on them
// without string matching.
type ErrorKind string

const (
	KindNetwork            ErrorKind = "network"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindEmailTaken         ErrorKind = "email_taken"
	KindWeakPassword       ErrorKind = "weak_password"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindQuotaExceeded      ErrorKind = "quota_exceeded"
	KindInvalidCode        ErrorKind = "invalid_code"
	KindServer             ErrorKind = "server"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is an api.Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Profile is the server's view of the account, as returned by /api/me and
// the auth endpoints.
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GHINNumber string `json:"ghin_number"`
	Tier       string `json:"tier"`
	Credits    int    `json:"credits"`
}

type AuthResult struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type AuthGHINResult struct {
	AuthResult
	GHINProfile *ghin.Profile `json:"ghin_profile,omitempty"`
}

type PreviewResult struct {
	Strategy *domain.Strategy `json:"strategy"`
	Provider string           `json:"provider"`
}

type CommitResult struct {
	AnalysisID       string `json:"analysis_id"`
	RemainingCredits int    `json:"remaining_credits"`
}

type CheckoutResult struct {
	CheckoutURL string `json:"checkout_url"`
}

type ActivateCodeResult struct {
	CreditsGranted   int `json:"credits_granted"`
	RemainingCredits int `json:"remaining_credits"`
}

// Client is the typed HTTP client for the golf strategy backend.
type Client struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	token string
}

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: base, client: client}, nil
}

// SetToken installs the bearer token used on authenticated calls. An empty
// token reverts the client to anonymous.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": password, "name": name,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterWithGHIN(ctx context.Context, email, password, name, ghinNumber string) (*AuthGHINResult, error) {
	var out AuthGHINResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register-ghin", map[string]string{
		"email": email, "password": password, "name": name, "ghin_number": ghinNumber,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Preview(ctx context.Context, card domain.Scorecard) (*PreviewResult, error) {
	var out PreviewResult
	err := c.do(ctx, http.MethodPost, "/api/analyses/preview", map[string]any{"scorecard": card}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Commit(ctx context.Context, payload, formSnapshot json.RawMessage) (*CommitResult, error) {
	var out CommitResult
	err := c.do(ctx, http.MethodPost, "/api/analyses", map[string]any{
		"payload": payload, "form_snapshot": formSnapshot,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCheckout(ctx context.Context, planID string) (*CheckoutResult, error) {
	var out CheckoutResult
	err := c.do(ctx, http.MethodPost, "/api/checkout", map[string]string{"plan_id": planID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ActivateCode(ctx context.Context, code string) (*ActivateCodeResult, error) {
	var out ActivateCodeResult
	err := c.do(ctx, http.MethodPost, "/api/codes/activate", map[string]string{"code": code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type errorEnvelope struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindServer, Message: "malformed response: " + err.Error()}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var env errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Code == "" {
		// The auth middleware answers plain text; classify by status.
		if resp.StatusCode == http.StatusUnauthorized {
			return &Error{Kind: KindUnauthorized, Message: "unauthorized"}
		}
		return &Error{Kind: KindServer, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	kind := KindServer
	switch env.Code {
	case "invalid_credentials":
		kind = KindInvalidCredentials
	case "email_taken":
		kind = KindEmailTaken
	case "weak_password":
		kind = KindWeakPassword
	case "unauthorized":
		kind = KindUnauthorized
	case "quota_exceeded":
		kind = KindQuotaExceeded
	case "invalid_code":
		kind = KindInvalidCode
	}
	return &Error{Kind: kind, Message: env.Message}
}
