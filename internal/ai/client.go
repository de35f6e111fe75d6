// Package ai wraps the chat-completion provider used for coaching features.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studyos/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrDisabled is returned when no API key is configured
var ErrDisabled = errors.New("ai: no API key configured")

// Role of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn
type Message struct {
	Role    Role
	Content string
}

// Request describes one completion call
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Client produces text completions
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// generator is the slice of llms.Model the client needs
type generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type client struct {
	llm        generator
	limiter    *rate.Limiter
	maxRetries uint64
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient builds a rate limited, retrying client. It returns ErrDisabled without an API key.
func NewClient(cfg config.AIConfig, logger *zap.Logger) (Client, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return newClient(llm, cfg, logger), nil
}

func newClient(llm generator, cfg config.AIConfig, logger *zap.Logger) *client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	burst := rpm / 10
	if burst < 1 {
		burst = 1
	}
	return &client{
		llm:        llm,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst),
		maxRetries: cfg.MaxRetries,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// Complete waits for the limiter, then calls the provider with exponential backoff on transient failures
func (c *client) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	messages := make([]llms.MessageContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, llms.TextParts(chatType(m.Role), m.Content))
	}

	var callOpts []llms.CallOption
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(req.Temperature))
	}

	var text string
	operation := func() error {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		resp, err := c.llm.GenerateContent(callCtx, messages, callOpts...)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if resp == nil || len(resp.Choices) == 0 {
			return backoff.Permanent(errors.New("empty response from provider"))
		}
		text = strings.TrimSpace(resp.Choices[0].Content)
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 30 * time.Second

	err := backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx),
		func(err error, wait time.Duration) {
			c.logger.Warn("AI completion failed, retrying",
				zap.Error(err),
				zap.Duration("backoff", wait),
			)
		})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return text, nil
}

func chatType(r Role) schema.ChatMessageType {
	switch r {
	case RoleSystem:
		return schema.ChatMessageTypeSystem
	case RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

// retryable treats timeouts, rate limits and 5xx responses as transient
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "timeout", "500", "502", "503", "504", "connection reset", "eof"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
