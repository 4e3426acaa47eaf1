package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"liftlog/internal/config"

	"github.com/samber/oops"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = errors.New("assistant returned an empty response")
	// ErrNoAPIKey is returned by generators built without credentials.
	ErrNoAPIKey = errors.New("no assistant API key configured")
)

// Request is one generation call.
type Request struct {
	Model             string
	Prompt            string
	SystemInstruction string
}

// Generator produces the assistant's reply to a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Settings tune generation.
type Settings struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// LLMGenerator implements Generator on a langchaingo model.
type LLMGenerator struct {
	llm      llms.Model
	settings Settings
}

// NewLLMGenerator wraps llm.
func NewLLMGenerator(llm llms.Model, settings Settings) *LLMGenerator {
	return &LLMGenerator{llm: llm, settings: settings}
}

// NewFromConfig builds a generator for the configured OpenAI-compatible
// endpoint. Without an API key it returns a generator that always fails with
// ErrNoAPIKey, so the chat keeps working and apologizes instead.
func NewFromConfig(cfg *config.Config) (Generator, error) {
	settings := Settings{
		Model:       cfg.Assistant.Model,
		Temperature: cfg.Assistant.Temperature,
		MaxTokens:   cfg.Assistant.MaxTokens,
	}

	key := cfg.APIKey()
	if key == "" {
		return Unavailable{Err: ErrNoAPIKey}, nil
	}

	llm, err := openai.New(
		openai.WithToken(key),
		openai.WithBaseURL(cfg.Assistant.BaseURL),
		openai.WithModel(cfg.Assistant.Model),
		openai.WithCallback(LogCallbackHandler{}),
	)
	if err != nil {
		return nil, oops.With("base_url", cfg.Assistant.BaseURL).Wrapf(err, "failed to create assistant client")
	}
	return NewLLMGenerator(llm, settings), nil
}

// Generate implements Generator.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (string, error) {
	var messages []llms.MessageContent
	if req.SystemInstruction != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemInstruction))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	model := req.Model
	if model == "" {
		model = g.settings.Model
	}
	opts := []llms.CallOption{llms.WithTemperature(g.settings.Temperature)}
	if model != "" {
		opts = append(opts, llms.WithModel(model))
	}
	if g.settings.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(g.settings.MaxTokens))
	}

	resp, err := g.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

// Unavailable is a Generator that always fails with Err.
type Unavailable struct {
	Err error
}

// Generate implements Generator.
func (u Unavailable) Generate(context.Context, Request) (string, error) {
	return "", u.Err
}
