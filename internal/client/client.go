package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/DoyleJ11/waitlist/pkg/types"
)

var ErrFetchRankings = errors.New("failed to fetch rankings")
var ErrUnexpectedStatus = errors.New("unexpected status")
var ErrNullBody = errors.New("response body is null")

// Client talks to the waitlist JSON endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Signup posts the form. The body is decoded whatever the status code, since
// the server reports application errors as 400 with an error field.
func (c *Client) Signup(ctx context.Context, req types.SignupRequest) (types.SignupResponse, error) {
	resp, err := c.postJSON(ctx, "/signup", req)
	if err != nil {
		return types.SignupResponse{}, err
	}
	defer resp.Body.Close()

	var out *types.SignupResponse
	if err := decode(resp.Body, &out); err != nil {
		return types.SignupResponse{}, fmt.Errorf("signup: %w", err)
	}
	if out == nil {
		return types.SignupResponse{}, fmt.Errorf("signup: %w", ErrNullBody)
	}
	return *out, nil
}

func (c *Client) Rankings(ctx context.Context) ([]types.RankingEntry, error) {
	resp, err := c.get(ctx, "/rank-data")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchRankings, resp.StatusCode)
	}

	var out []types.RankingEntry
	if err := decode(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("rank data: %w", err)
	}
	// an empty list is [], never null
	if out == nil {
		return nil, fmt.Errorf("rank data: %w", ErrNullBody)
	}
	return out, nil
}

func (c *Client) Top(ctx context.Context) ([]types.TopEntry, error) {
	resp, err := c.get(ctx, "/top10")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("top10: %w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out []types.TopEntry
	if err := decode(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("top10: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("top10: %w", ErrNullBody)
	}
	return out, nil
}

func (c *Client) Referral(ctx context.Context, req types.ReferralRequest) (types.ReferralResponse, error) {
	resp, err := c.postJSON(ctx, "/referral", req)
	if err != nil {
		return types.ReferralResponse{}, err
	}
	defer resp.Body.Close()

	var out *types.ReferralResponse
	if err := decode(resp.Body, &out); err != nil {
		return types.ReferralResponse{}, fmt.Errorf("referral: %w", err)
	}
	if out == nil {
		return types.ReferralResponse{}, fmt.Errorf("referral: %w", ErrNullBody)
	}
	return *out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return resp, nil
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
