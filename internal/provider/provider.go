// Package provider is the boundary to the generative model. Calls go through
// a go-agents agent behind a token-bucket limiter.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"golang.org/x/time/rate"
)

// Request is one structured generation call.
// System carries instructions and output shape; Input carries the capped excerpt.
type Request struct {
	System    string
	Input     string
	MaxTokens int
}

// Client issues generation requests and returns the raw response content.
// Malformed content is not an error at this layer.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Chat sends one prompt to the model and returns the response text.
type Chat func(ctx context.Context, prompt string, opts map[string]any) (string, error)

type client struct {
	chat    Chat
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// New builds an agent from agentCfg and wraps it in a Client.
func New(agentCfg *gaconfig.AgentConfig, cfg *Config, logger *slog.Logger) (Client, error) {
	a, err := agent.New(agentCfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return NewWithChat(agentChat(a), cfg, logger), nil
}

// NewWithChat wraps chat in a Client. A zero RequestsPerSecond disables
// throttling.
func NewWithChat(chat Chat, cfg *Config, logger *slog.Logger) Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &client{
		chat:    chat,
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		timeout: cfg.TimeoutDuration(),
		logger:  logger.With("system", "provider"),
	}
}

func agentChat(a agent.Agent) Chat {
	return func(ctx context.Context, prompt string, opts map[string]any) (string, error) {
		resp, err := a.Chat(ctx, prompt, opts)
		if err != nil {
			return "", err
		}
		return resp.Content(), nil
	}
}

func (c *client) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %w", ErrTransport, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	opts := map[string]any{}
	if req.MaxTokens > 0 {
		opts["max_tokens"] = req.MaxTokens
	}

	start := time.Now()
	content, err := c.chat(ctx, compose(req), opts)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return "", fmt.Errorf("%w: %w", ErrTransport, err)
		case malformed(err):
			c.logger.Warn("malformed provider response", "error", err)
			return "", fmt.Errorf("%w: %w", ErrEmptyResponse, err)
		}
		return "", fmt.Errorf("%w: %w", ErrStatus, err)
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("completion received", "chars", len(content), "duration", time.Since(start))
	return content, nil
}

// malformed reports whether err is a failure to decode a response body the
// provider accepted.
func malformed(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// compose joins the instructions and the excerpt into the single prompt the
// agent sends.
func compose(req Request) string {
	if req.Input == "" {
		return req.System
	}
	return req.System + "\n\n---\n\n" + req.Input
}

// Excerpt caps text at limit runes. Text is truncated, never chunked.
func Excerpt(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		return text
	}
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit])
}
