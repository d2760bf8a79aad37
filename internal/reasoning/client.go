package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
	"github.com/MrSnakeDoc/mapbuddy/internal/utils"
)

const maxErrorBody = 64 << 10

// Request is one delegated reasoning call.
type Request struct {
	Instructions string        // system prompt
	History      []domain.Turn // prior turns, oldest first
	Prompt       string        // newest user text
}

// Completer sends a request to a reasoning service and returns its
// reply text.
type Completer interface {
	Complete(ctx context.Context, credential string, req Request) (string, error)
}

// Options configures the chat-completions client.
type Options struct {
	BaseURL     string        // ex: https://openrouter.ai/api/v1
	Model       string        // ex: deepseek/deepseek-r1:free
	MaxTokens   int           // reply budget
	Temperature float64       // sampling temperature
	Referer     string        // sent as HTTP-Referer
	Title       string        // sent as X-Title
	Timeout     time.Duration // per call
	RPS         float64       // outbound calls per second, <= 0 = unlimited
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
	log     logger.Logger
}

var _ Completer = (*Client)(nil)

func NewClient(opts Options, log logger.Logger) *Client {
	limit := rate.Inf
	burst := 1
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
		burst = max(1, int(opts.RPS*2))
	}
	if opts.Title == "" {
		opts.Title = "Map Buddy AI"
	}

	return &Client{
		opts:    opts,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete performs one chat-completions call. Failures of the call
// itself are *Error values; a request that cannot be encoded is a
// plain error.
func (c *Client) Complete(ctx context.Context, credential string, req Request) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", newError(ErrMissingCredential, 0, "", nil)
	}

	messages := make([]chatMessage, 0, len(req.History)+2)
	if req.Instructions != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.Instructions})
	}
	for _, turn := range req.History {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Text})
	}
	messages = append(messages, chatMessage{Role: string(domain.RoleUser), Content: req.Prompt})

	return c.send(ctx, credential, chatRequest{
		Model:       c.opts.Model,
		Messages:    messages,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
}

// Validate probes the service with a tiny request to check that
// credential is accepted.
func (c *Client) Validate(ctx context.Context, credential string) error {
	if strings.TrimSpace(credential) == "" {
		return newError(ErrMissingCredential, 0, "", nil)
	}
	_, err := c.send(ctx, credential, chatRequest{
		Model:     c.opts.Model,
		Messages:  []chatMessage{{Role: string(domain.RoleUser), Content: "Hello"}},
		MaxTokens: 10,
	})
	return err
}

func (c *Client) send(ctx context.Context, credential string, payload chatRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", newError(ErrNetworkFailure, 0, "throttled call abandoned", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.opts.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", newError(ErrNetworkFailure, 0, "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+credential)
	httpReq.Header.Set("X-Title", c.opts.Title)
	if c.opts.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.opts.Referer)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn("reasoning call failed", logger.Error(err), logger.Duration("elapsed", time.Since(start)))
		return "", newError(ErrNetworkFailure, 0, "", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.statusError(resp)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", newError(ErrMalformedResponse, resp.StatusCode, "undecodable body", err)
	}
	if len(result.Choices) == 0 {
		if result.Error != nil && result.Error.Message != "" {
			return "", newError(ErrRemoteFailure, resp.StatusCode, result.Error.Message, nil)
		}
		return "", newError(ErrMalformedResponse, resp.StatusCode, "no choices in response", nil)
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", newError(ErrMalformedResponse, resp.StatusCode, "empty reply content", nil)
	}

	c.log.Debug("reasoning call completed",
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)))
	return content, nil
}

// statusError maps a non-2xx response to the error taxonomy, keeping
// the service's own message when it sent one.
func (c *Client) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	detail := statusDetail(resp.StatusCode, http.StatusText(resp.StatusCode))
	var parsed chatResponse
	if json.Unmarshal(raw, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
		detail = parsed.Error.Message
	}

	kind := ErrRemoteFailure
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrInvalidCredential
	case http.StatusTooManyRequests:
		kind = ErrRateLimited
	}

	c.log.Warn("reasoning service returned an error",
		logger.Int("status", resp.StatusCode),
		logger.String("detail", detail))
	return newError(kind, resp.StatusCode, detail, nil)
}

// String is used in startup logs.
func (c *Client) String() string {
	return fmt.Sprintf("%s (%s)", c.opts.BaseURL, c.opts.Model)
}
