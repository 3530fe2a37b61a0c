package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/dishlingo/internal/domain"
	"github.com/timmy/dishlingo/internal/logger"
	"github.com/timmy/dishlingo/internal/metrics"
)

// VLMGateway is the InferenceGateway backed by an OpenAI-compatible
// chat completions endpoint.
type VLMGateway struct {
	client      *resty.Client
	model       string
	endpoint    string
	maxTokens   int
	temperature float32
}

// VLMConfig holds configuration for the VLM gateway.
type VLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	RetryCount  int
	MaxTokens   int
	Temperature float32
}

// RetryMaxWait caps the backoff between two attempts of one call.
const RetryMaxWait = 5 * time.Second

// NewVLMGateway creates a new VLM gateway.
// Parameters:
//   - cfg: VLM configuration including model, key and retry policy.
//
// Returns:
//   - *VLMGateway: initialized client wrapper, safe for concurrent use.
func NewVLMGateway(cfg *VLMConfig) *VLMGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(timeout)

	// Retries stay inside the gateway; callers only see the final outcome.
	if cfg.RetryCount > 0 {
		client.SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(RetryMaxWait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return !errors.Is(err, context.Canceled)
				}
				return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
			})
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}

	return &VLMGateway{
		client:      client,
		model:       cfg.Model,
		endpoint:    baseURL + "/chat/completions",
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}
}

// GetModel returns the model name being used.
func (g *VLMGateway) GetModel() string {
	return g.model
}

// OpenAI-compatible Chat Completion API request/response structures
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float32         `json:"temperature"`
}

type openAIMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string, or []interface{} when an image is attached
}

type openAITextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type openAIImageContent struct {
	Type     string         `json:"type"`
	ImageURL openAIImageURL `json:"image_url"`
}

type openAIImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one chat completion request.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - prompt: system/user text and operation label.
//   - image: optional image payload (data URI or URL); empty means text-only.
//
// Returns:
//   - string: raw model output, untrusted.
//   - error: *GatewayError on transport or service failure.
func (g *VLMGateway) Complete(ctx context.Context, prompt Prompt, image domain.ImageInput) (string, error) {
	start := time.Now()
	text, err := g.complete(ctx, prompt, image)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.GatewayRequests.WithLabelValues(string(prompt.Op), outcome).Inc()
	metrics.GatewayDuration.WithLabelValues(string(prompt.Op)).Observe(time.Since(start).Seconds())

	logger.With(logger.Fields{
		"operation": string(prompt.Op),
		"model":     g.model,
	}).WithDuration(time.Since(start).Milliseconds()).WithStatus(outcome).Debug(ctx, "Inference call finished")

	return text, err
}

func (g *VLMGateway) complete(ctx context.Context, prompt Prompt, image domain.ImageInput) (string, error) {
	maxTokens := g.maxTokens
	if prompt.MaxTokens > 0 {
		maxTokens = prompt.MaxTokens
	}

	var userContent interface{} = prompt.User
	if image != "" {
		userContent = []interface{}{
			openAITextContent{
				Type: "text",
				Text: prompt.User,
			},
			openAIImageContent{
				Type: "image_url",
				ImageURL: openAIImageURL{
					URL:    image.String(),
					Detail: "high", // menus are dense small print
				},
			},
		}
	}

	messages := make([]openAIMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: prompt.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: userContent})

	req := openAIRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: g.temperature,
	}

	var resp openAIResponse
	httpResp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(g.endpoint)

	if err != nil {
		return "", &GatewayError{Op: prompt.Op, Err: fmt.Errorf("failed to call VLM API: %w", err)}
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		msg := string(httpResp.Body())
		if resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return "", &GatewayError{
			Op:         prompt.Op,
			StatusCode: httpResp.StatusCode(),
			Err:        fmt.Errorf("VLM API returned error: %s", msg),
		}
	}

	if resp.Error != nil {
		return "", &GatewayError{Op: prompt.Op, Err: fmt.Errorf("VLM API error: %s", resp.Error.Message)}
	}

	if len(resp.Choices) == 0 {
		return "", &GatewayError{
			Op:  prompt.Op,
			Err: fmt.Errorf("no choices in response (status: %d)", httpResp.StatusCode()),
		}
	}

	return resp.Choices[0].Message.Content, nil
}
