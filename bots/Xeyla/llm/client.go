package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"botfarm/bot"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "openai/gpt-oss-120b"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

var (
	// ErrEmptyResponse is returned when the service answers with no content.
	ErrEmptyResponse = errors.New("empty completion")
	// ErrService is returned when the service answers with a non-2xx status.
	ErrService = errors.New("completion service error")
)

// Config of an OpenAI-compatible chat completions endpoint.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration // deadline of a single completion
}

// Client completes a user message under a system instruction.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.SugaredLogger
	metrics    *bot.Metrics
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a client. Empty BaseURL and Model fall back to the
// defaults.
func NewClient(cfg Config, l *zap.SugaredLogger, m *bot.Metrics) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     l,
		metrics:    m,
	}
}

// Complete sends instruction as the system message and msg as the user
// message. It fails on transport errors, non-2xx answers and empty content;
// it never blocks longer than the configured timeout.
func (c *Client) Complete(ctx context.Context, instruction, msg string, temperature float64) (string, error) {
	reqID := uuid.NewString()
	l := c.logger.With("req", reqID)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: instruction},
			{Role: "user", Content: msg},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed marshalling request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Completion("transport_error")
		l.Warnw("completion request failed", "err", err)
		return "", errors.Wrap(err, "failed requesting completion")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.Completion("transport_error")
		return "", errors.Wrap(err, "failed reading completion")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.Completion("service_error")
		l.Warnw("completion service answered with error", "status", resp.StatusCode, "body", truncate(respBody))
		return "", errors.Wrapf(ErrService, "status %d", resp.StatusCode)
	}

	var cr completionResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		c.metrics.Completion("decode_error")
		return "", errors.Wrap(err, "failed decoding completion")
	}

	if cr.Error != nil {
		c.metrics.Completion("service_error")
		return "", errors.Wrapf(ErrService, "%s: %s", cr.Error.Type, cr.Error.Message)
	}

	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		c.metrics.Completion("empty")
		return "", ErrEmptyResponse
	}

	c.metrics.Completion("ok")
	l.Debugw("completion received", "took", time.Since(start), "finish", cr.Choices[0].FinishReason)

	return cr.Choices[0].Message.Content, nil
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return fmt.Sprintf("%s...", b[:maxErrorBody])
	}
	return string(b)
}
