package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/tessa/internal/utils"
)

const (
	defaultModel    = "gemini-2.5-flash"
	defaultLocation = "us-central1"

	baseRetryDelay = time.Second
	maxRetryDelay  = 10 * time.Second
)

// sleep is swapped in tests.
var sleep = utils.WaitFor

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// modelsAPI is the subset of genai.Models the generator calls.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options selects the backend. APIKey targets the Gemini API; Project switches
// to Vertex AI with Location, APIVersion and BaseURL as gateway settings.
type Options struct {
	APIKey     string
	Project    string
	Location   string
	APIVersion string
	BaseURL    string
	Model      string
	// MaxRetries is the total number of attempts for transient errors.
	MaxRetries int
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	models     modelsAPI
	backend    string
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a Generator for the Gemini API or, when a project is
// set, for Vertex AI.
func NewGenerator(ctx context.Context, opts Options, logger *zap.Logger) (*Generator, error) {
	cfg := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimSpace(opts.BaseURL),
			APIVersion: strings.TrimSpace(opts.APIVersion),
		},
	}

	backend := "gemini"
	if project := strings.TrimSpace(opts.Project); project != "" {
		location := strings.TrimSpace(opts.Location)
		if location == "" {
			location = defaultLocation
		}

		backend = "vertex"
		cfg.Backend = genai.BackendVertexAI
		cfg.Project = project
		cfg.Location = location
	} else {
		apiKey := strings.TrimSpace(opts.APIKey)
		if apiKey == "" {
			return nil, errors.New("gemini api key is required")
		}

		cfg.Backend = genai.BackendGeminiAPI
		cfg.APIKey = apiKey
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, backend, opts.Model, opts.MaxRetries, logger), nil
}

func newGenerator(models modelsAPI, backend, model string, maxRetries int, logger *zap.Logger) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:     models,
		backend:    backend,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Complete sends the prompt and returns the joined text of the response,
// retrying transient API errors.
func (g *Generator) Complete(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		output, err := g.generateContent(ctx, prompt)
		if err == nil {
			return output, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", err
		}

		delay, retryable := retryDelay(err, attempt)
		if !retryable || attempt == g.maxRetries {
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := sleep(ctx, delay); err != nil {
			return "", lastErr
		}
	}

	return "", lastErr
}

func (g *Generator) generateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryDelay reports whether err is worth another attempt and how long to wait.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	if apiErr.Code != http.StatusTooManyRequests && apiErr.Code < http.StatusInternalServerError {
		return 0, false
	}

	if match := retryAfterPattern.FindStringSubmatch(apiErr.Message); match != nil {
		secs, parseErr := strconv.ParseFloat(match[1], 64)
		if parseErr == nil {
			wait := time.Duration(secs * float64(time.Second))
			if wait > maxRetryDelay {
				return 0, false
			}
			return wait, true
		}
	}

	delay := baseRetryDelay << (attempt - 1)
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}

	return delay, true
}

func (g *Generator) Name() string {
	if g == nil {
		return ""
	}
	return g.backend
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
