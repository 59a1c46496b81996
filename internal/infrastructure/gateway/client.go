// Package gateway talks to the local completion service and extracts a single
// command line from its free-text reply.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
)

// Typed gateway failures, aliased here for convenience. All of them are
// terminal for the current turn and recoverable for the session.
var (
	ErrUnavailable = ports.ErrGatewayUnavailable
	ErrTimeout     = ports.ErrGatewayTimeout
	ErrUnparsable  = ports.ErrGatewayUnparsable
)

// Client implements ports.CompletionGateway against an Ollama-style
// /api/generate endpoint on loopback.
type Client struct {
	endpoint   string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient validates the endpoint and builds a client. The endpoint host
// must resolve to a loopback address; anything else is refused outright
// rather than defaulted, since sending prompts off-box is a policy violation,
// not a configuration preference.
func NewClient(cfg domain.ModelSettings) (*Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = domain.DefaultEndpoint
	}
	if err := requireLoopback(endpoint); err != nil {
		return nil, err
	}

	timeout := domain.DefaultGatewayTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	model := cfg.Name
	if model == "" {
		model = domain.DefaultModelName
	}

	return &Client{
		endpoint:   endpoint,
		model:      model,
		timeout:    timeout,
		httpClient: &http.Client{},
	}, nil
}

func requireLoopback(endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid completion endpoint %q: %w", endpoint, err)
	}
	host := parsed.Hostname()
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("completion endpoint %q is not a loopback address", endpoint)
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Interpret sends the prompt and returns the extracted command line. The
// deadline is hard: the call is cut at the configured ceiling no matter how
// long the service takes.
func (c *Client) Interpret(ctx context.Context, prompt string) (string, error) {
	reply, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	command, err := ExtractCommand(reply)
	if err != nil {
		return "", err
	}
	return command, nil
}

// Explain asks the completion service for a one-line description of command.
func (c *Client) Explain(ctx context.Context, command string) (string, error) {
	prompt := "You are a helpful terminal assistant. Explain what this shell command does in plain English.\n" +
		"Be concise (1-2 sentences max) and start with a verb.\n" +
		"Command: " + command + "\nExplanation:"
	reply, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", ErrUnparsable
	}
	return reply, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return decoded.Response, nil
}

var _ ports.CompletionGateway = (*Client)(nil)
