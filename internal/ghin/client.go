// Package ghin looks up golfer profiles from the handicap service.
package ghin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Profile is the subset of the handicap record used to pre-fill forms.
type Profile struct {
	GHINNumber    string        `json:"ghin_number"`
	PlayerName    string        `json:"player_name"`
	HandicapIndex float64       `json:"handicap_index"`
	Club          string        `json:"club,omitempty"`
	RecentScores  []RecentScore `json:"recent_scores,omitempty"`
}

// RecentScore is one posted score from the golfer's history.
type RecentScore struct {
	CourseName string `json:"course_name"`
	Score      int    `json:"score"`
	Rating     string `json:"rating,omitempty"`
	PostedAt   string `json:"posted_at,omitempty"`
}

// ErrNotFound is returned when the service has no record for the number.
var ErrNotFound = errors.New("ghin: golfer not found")

type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client calls the handicap-service HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("ghin base url is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: base, apiKey: strings.TrimSpace(opts.APIKey), client: client}, nil
}

// Lookup fetches the profile for a GHIN number.
func (c *Client) Lookup(ctx context.Context, ghinNumber string) (*Profile, error) {
	number := strings.TrimSpace(ghinNumber)
	if number == "" {
		return nil, errors.New("ghin number is required")
	}
	endpoint := fmt.Sprintf("%s/golfers/%s", c.baseURL, url.PathEscape(number))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ghin lookup: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ghin lookup: status %d", resp.StatusCode)
	}
	var out Profile
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ghin lookup: decode: %w", err)
	}
	if out.GHINNumber == "" {
		out.GHINNumber = number
	}
	return &out, nil
}
