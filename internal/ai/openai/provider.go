package openai

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
)

const (
	DefaultBaseURL         = "https://api.openai.com/v1"
	DefaultAzureAPIVersion = "2025-01-01-preview"
)

// Provider calls an OpenAI compatible chat completions endpoint. The Azure
// variant addresses a deployment and authenticates with an api-key header.
type Provider struct {
	name       string
	endpoint   string
	model      string
	header     string
	credential string
	httpClient *http.Client
}

// NewProvider targets the OpenAI API at baseURL.
func NewProvider(baseURL, apiKey, model string, httpClient *http.Client) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("openai model is required")
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Provider{
		name:       "openai",
		endpoint:   baseURL + "/chat/completions",
		model:      model,
		header:     "Authorization",
		credential: "Bearer " + apiKey,
		httpClient: orDefault(httpClient),
	}, nil
}

// NewAzureProvider targets the deployment named model on an Azure OpenAI resource.
func NewAzureProvider(endpoint, apiKey, apiVersion, model string, httpClient *http.Client) (*Provider, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("azure openai endpoint is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("azure openai api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("azure openai deployment is required")
	}
	if apiVersion = strings.TrimSpace(apiVersion); apiVersion == "" {
		apiVersion = DefaultAzureAPIVersion
	}

	target := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		endpoint, url.PathEscape(model), url.QueryEscape(apiVersion))

	return &Provider{
		name:       "azure-openai",
		endpoint:   target,
		model:      model,
		header:     "api-key",
		credential: apiKey,
		httpClient: orDefault(httpClient),
	}, nil
}

func orDefault(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

type chatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Complete sends prompt as a single user message and returns the first choice.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	// Azure resolves the model from the deployment path.
	if p.name == "openai" {
		reqBody.Model = p.model
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(p.header, p.credential)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBytes))}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", chatResp.Error.Type, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("llm returned no choices")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("llm returned empty content")
	}

	return content, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) Model() string {
	return p.model
}
