package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/tessa/internal/logger"
	"github.com/spigell/tessa/internal/utils"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

// Completer turns a prompt into a single text completion.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider is a Completer bound to one backend and deployment.
type Provider interface {
	Completer
	Name() string
	Model() string
}

// ProviderError wraps any failure of a language model call.
type ProviderError struct {
	Provider string
	Model    string
	// Timeout is set when the per-call deadline expired.
	Timeout bool
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s (%s): request timed out: %v", e.Provider, e.Model, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Client applies the per-call timeout to a Provider and normalises its errors.
type Client struct {
	provider  Provider
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

func NewClient(provider Provider, timeout time.Duration, maxLogLength int, log *zap.Logger) *Client {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Client{
		provider:  provider,
		timeout:   timeout,
		maxLogLen: maxLogLength,
		logger:    logger.WithCommonFields(log, provider.Name(), provider.Model()),
	}
}

func (c *Client) Name() string {
	return c.provider.Name()
}

func (c *Client) Model() string {
	return c.provider.Model()
}

// Complete sends prompt to the provider. Every failure is a *ProviderError.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", c.wrap(ctx, errors.New("prompt must not be empty"))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("completion request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	started := time.Now()
	text, err := c.provider.Complete(ctx, prompt)
	if err != nil {
		return "", c.wrap(ctx, err)
	}

	c.logger.Debug("completion response",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, c.maxLogLen)),
	)

	return text, nil
}

func (c *Client) wrap(ctx context.Context, err error) error {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return err
	}

	timedOut := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)

	return &ProviderError{
		Provider: c.provider.Name(),
		Model:    c.provider.Model(),
		Timeout:  timedOut,
		Err:      err,
	}
}
