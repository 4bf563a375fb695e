// Package gemini implements the generative AI gateway on top of the
// Google Gemini REST API. It exposes plain text completion plus the
// structured flows (compendium, flashcards, quiz, answer, explain) that
// the material pipeline builds on.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/pkg/circuitbreaker"
	"github.com/studymind/studymind-server/pkg/logger"
	"github.com/studymind/studymind-server/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Gemini API client.
type ClientConfig struct {
	// BaseURL is the Gemini API base URL.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// Model is the text model name.
	Model string

	// VisionModel handles requests with inline image data.
	VisionModel string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Temperature and MaxOutputTokens tune generation.
	Temperature     float64
	MaxOutputTokens int

	// RetryConfig governs transport-level retries.
	RetryConfig retry.Config

	// BreakerConfig shields the service when the provider degrades.
	BreakerConfig circuitbreaker.Config

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(apiKey string) ClientConfig {
	return ClientConfig{
		BaseURL:         "https://generativelanguage.googleapis.com",
		APIKey:          apiKey,
		Model:           "gemini-1.5-flash",
		VisionModel:     "gemini-1.5-flash",
		Timeout:         60 * time.Second,
		Temperature:     0.7,
		MaxOutputTokens: 8192,
		RetryConfig:     retry.AIProviderConfig(),
		BreakerConfig: circuitbreaker.Config{
			Name:             "gemini",
			FailureThreshold: 5,
			SuccessThreshold: 2,
			OpenTimeout:      30 * time.Second,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Gemini API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	breaker    *circuitbreaker.Breaker
	log        *logger.Logger
}

// NewClient creates a new Gemini API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = logger.Default()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		breaker: circuitbreaker.New(config.BreakerConfig),
		log:     config.Logger.With(logger.Component("gemini")),
	}
}

// Complete sends a text prompt and returns the raw completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Contents: []contentDTO{{
			Role:  "user",
			Parts: []partDTO{{Text: prompt}},
		}},
		GenerationConfig: c.generationConfig(),
	}
	return c.generate(ctx, c.config.Model, req)
}

// CompleteVision sends a prompt with inline image data.
func (c *Client) CompleteVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return c.Complete(ctx, prompt)
	}

	req := generateRequest{
		Contents: []contentDTO{{
			Role: "user",
			Parts: []partDTO{
				{Text: prompt},
				{InlineData: &inlineDataDTO{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
		GenerationConfig: c.generationConfig(),
	}
	return c.generate(ctx, c.config.VisionModel, req)
}

func (c *Client) generationConfig() *generationConfig {
	return &generationConfig{
		Temperature:     c.config.Temperature,
		MaxOutputTokens: c.config.MaxOutputTokens,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// HTTP plumbing
// ─────────────────────────────────────────────────────────────────────────────

// generate runs one generateContent call through the breaker and the
// retry loop. Only transport failures and 5xx/429 responses are retried;
// everything the provider rejects outright is permanent.
func (c *Client) generate(ctx context.Context, model string, req generateRequest) (string, error) {
	started := time.Now()

	var text string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		out, err := retry.DoWithData(ctx, c.config.RetryConfig, func(ctx context.Context) (string, error) {
			return c.doGenerate(ctx, model, req)
		})
		if err != nil {
			return err
		}
		text = out
		return nil
	})

	if err != nil {
		c.log.Warn("completion failed",
			logger.String("model", model),
			logger.Latency(time.Since(started)),
			logger.Err(err),
		)
		return "", err
	}

	c.log.Debug("completion succeeded",
		logger.String("model", model),
		logger.Int("response_chars", len(text)),
		logger.Latency(time.Since(started)),
	)
	return text, nil
}

func (c *Client) doGenerate(ctx context.Context, model string, req generateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("gemini: marshal request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.config.BaseURL, url.PathEscape(model), url.QueryEscape(c.config.APIKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("gemini: create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", retry.Permanent(fmt.Errorf("%w: %v", shared.ErrAIProviderTimeout, err))
		}
		return "", fmt.Errorf("%w: %v", shared.ErrAIProviderFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", shared.ErrAIProviderFailed, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: %s", shared.ErrAIRateLimited, providerMessage(respBody, resp.StatusCode))
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: %s", shared.ErrAIProviderFailed, providerMessage(respBody, resp.StatusCode))
	case resp.StatusCode >= 400:
		return "", retry.Permanent(fmt.Errorf("%w: %s", shared.ErrAIProviderFailed, providerMessage(respBody, resp.StatusCode)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", retry.Permanent(fmt.Errorf("%w: malformed response envelope", shared.ErrAIProviderFailed))
	}
	if parsed.Error != nil {
		return "", retry.Permanent(fmt.Errorf("%w: %s", shared.ErrAIProviderFailed, parsed.Error.Message))
	}

	text := parsed.text()
	if text == "" {
		return "", retry.Permanent(fmt.Errorf("%w: empty completion", shared.ErrAIProviderFailed))
	}
	return text, nil
}

// providerMessage extracts the provider's error message, falling back to
// the status code.
func providerMessage(body []byte, status int) string {
	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return fmt.Sprintf("provider returned status %d", status)
}
