package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"

	"github.com/zdunecki/jobwizard/pkg/options"
)

// Client talks JSON over HTTP to the job service.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for endpoint. A non-empty token is sent as a
// bearer token on every request.
func NewClient(endpoint, token string) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("job service endpoint is not configured")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	base := cleanhttp.DefaultPooledClient()
	httpClient := base
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
	}
	return &Client{endpoint: endpoint, http: httpClient}, nil
}

func (c *Client) ListNodes(ctx context.Context) (NodeList, error) {
	var list NodeList
	if err := c.getJSON(ctx, "/nodes", &list); err != nil {
		return NodeList{}, fmt.Errorf("list nodes: %w", err)
	}
	return list, nil
}

func (c *Client) NodeOptions(ctx context.Context, nodeID string) (options.OptionSet, error) {
	var resp struct {
		Options options.OptionSet `json:"options"`
	}
	if err := c.getJSON(ctx, "/nodes/"+url.PathEscape(nodeID)+"/options", &resp); err != nil {
		return options.OptionSet{}, fmt.Errorf("node %s options: %w", nodeID, err)
	}
	return resp.Options, nil
}

func (c *Client) Submit(ctx context.Context, sub Submission) (string, error) {
	if sub.Options == nil {
		sub.Options = options.UserValues{}
	}
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/jobs", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("submit job: %w", err)
	}

	var resp struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("submit job: failed to parse response: %w", err)
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("submit job: response has no job id")
	}
	return resp.JobID, nil
}

func (c *Client) Status(ctx context.Context, jobID string) (JobStatus, error) {
	var status JobStatus
	if err := c.getJSON(ctx, "/jobs/"+url.PathEscape(jobID), &status); err != nil {
		return JobStatus{}, fmt.Errorf("job %s status: %w", jobID, err)
	}
	if status.ID == "" {
		status.ID = jobID
	}
	return status, nil
}

func (c *Client) Result(ctx context.Context, jobID string) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID)+"/result", nil)
	if err != nil {
		return nil, fmt.Errorf("job %s result: %w", jobID, err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// errorMessage pulls {"error": "..."} out of an error body, falling back to the raw text.
func errorMessage(body []byte) string {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return resp.Error
	}
	return strings.TrimSpace(string(body))
}
