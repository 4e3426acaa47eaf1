package assistant

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/llms"
)

var _ callbacks.Handler = LogCallbackHandler{}

// LogCallbackHandler reports provider calls through slog.
type LogCallbackHandler struct {
	callbacks.SimpleHandler
}

func (LogCallbackHandler) HandleLLMGenerateContentStart(ctx context.Context, ms []llms.MessageContent) {
	slog.DebugContext(ctx, "LLM generate content start", "messages", len(ms))
}

func (LogCallbackHandler) HandleLLMGenerateContentEnd(ctx context.Context, res *llms.ContentResponse) {
	if res == nil {
		return
	}
	chars := 0
	for _, c := range res.Choices {
		chars += len(c.Content)
	}
	slog.DebugContext(ctx, "LLM generate content end", "choices", len(res.Choices), "chars", chars)
}

func (LogCallbackHandler) HandleLLMError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "LLM error", "error", err)
}
