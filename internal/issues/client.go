package issues

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Issue is the subset of a GitHub issue the client reads back.
type Issue struct {
	Number  int       `json:"number"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	State   string    `json:"state"`
	HTMLURL string    `json:"html_url"`
	Created time.Time `json:"created_at"`
}

// Client talks to a GitHub-compatible issues API for a single repository.
type Client struct {
	baseURL *url.URL
	owner   string
	repo    string
	token   string
	client  *http.Client
}

func NewClient(apiURL, owner, repo, token string) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}

	if owner == "" || repo == "" {
		return nil, errors.New("owner and repo are required")
	}

	return &Client{
		baseURL: base,
		owner:   owner,
		repo:    repo,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *Client) issuesURL() string {
	return c.baseURL.JoinPath("repos", c.owner, c.repo, "issues").String()
}

// List returns the open issues of the repository.
func (c *Client) List(ctx context.Context) ([]Issue, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	if err := c.do(req, http.StatusOK, &issues); err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}

	return issues, nil
}

// Create opens a new issue.
func (c *Client) Create(ctx context.Context, title, body string) (*Issue, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("issue title is required")
	}

	payload, err := json.Marshal(map[string]string{"title": title, "body": body})
	if err != nil {
		return nil, fmt.Errorf("encoding issue: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	var issue Issue
	if err := c.do(req, http.StatusCreated, &issue); err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	return &issue, nil
}

func (c *Client) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.issuesURL(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")

	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	return req, nil
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
