package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

type GeminiService interface {
	// GenerateText sends a single prompt and returns the raw model text.
	GenerateText(ctx context.Context, prompt string) (string, error)
	BreakerState() string
}

type GeminiOptions struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Breaker         BreakerOptions
}

type BreakerOptions struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

type geminiService struct {
	client  *genai.Client
	opts    GeminiOptions
	breaker *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

func NewGeminiService(opts GeminiOptions) (GeminiService, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:  client,
		opts:    opts,
		breaker: NewInferenceBreaker("gemini-"+opts.Model, opts.Breaker),
	}, nil
}

// NewInferenceBreaker returns nil when the breaker is disabled.
func NewInferenceBreaker(name string, opts BreakerOptions) *gobreaker.CircuitBreaker[*genai.GenerateContentResponse] {
	if !opts.Enabled {
		return nil
	}

	return gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](gobreaker.Settings{
		Name:        name,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= opts.MinRequests && failureRatio >= opts.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("⚡ Circuit breaker %s changed from %s to %s\n", name, from, to)
		},
	})
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	temperature := g.opts.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  g.opts.MaxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	call := func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.opts.Model, genai.Text(prompt), config)
	}

	var resp *genai.GenerateContentResponse
	var err error
	if g.breaker != nil {
		resp, err = g.breaker.Execute(call)
	} else {
		resp, err = call()
	}
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", &InferenceError{Cause: err}
	}

	text, err := responseText(resp)
	if err != nil {
		log.Printf("❌ Gemini returned no usable text: %v\n", err)
		return "", &InferenceError{Cause: err}
	}

	log.Printf("📊 Gemini response received: %d characters\n", len(text))
	return text, nil
}

// BreakerState implements GeminiService.
func (g *geminiService) BreakerState() string {
	if g.breaker == nil {
		return "disabled"
	}
	return g.breaker.State().String()
}

// responseText extracts the text of a response, treating blocked, truncated
// and empty responses as failures.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 {
		switch resp.Candidates[0].FinishReason {
		case genai.FinishReasonSafety:
			return "", errors.New("response blocked by safety filters")
		case genai.FinishReasonMaxTokens:
			return "", errors.New("response truncated at the output token limit")
		}
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("no text content in response")
	}
	return text, nil
}
