package moderation

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"

	"echoroom/internal/middleware"
	"echoroom/internal/models"
	"echoroom/internal/observability"
)

// Canned replies used when the model has nothing to say or the call fails.
// The room always gets a response; the moderator never goes silent.
const (
	FallbackQuiet   = "I'm here if anyone wants to talk. 💬"
	FallbackCheckIn = "Just checking in—how's everyone doing so far? 😊"
)

// ReplyGenerator produces a moderator reply from recent room history.
// summoned distinguishes a direct @mod request from a periodic check-in.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, history []*models.Message, category string, summoned bool) string
}

// ReplyOracle generates moderator replies through a Mistral chat-completion
// endpoint via the OpenAI-compatible API.
type ReplyOracle struct {
	client  openai.Client
	model   string
	limit   int
	Timeout time.Duration
}

// NewReplyOracle creates an oracle against the given endpoint. baseURL
// points at Mistral in production and an httptest server in tests.
func NewReplyOracle(apiKey, baseURL, model string) *ReplyOracle {
	return &ReplyOracle{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
		model:   model,
		limit:   5,
		Timeout: 15 * time.Second,
	}
}

// GenerateReply asks the model for a moderator reply. It never returns an
// error: failures and empty completions degrade to canned fallbacks so the
// room still hears from the moderator.
func (o *ReplyOracle) GenerateReply(
	ctx context.Context, history []*models.Message, category string, summoned bool,
) string {
	promptBase := personaPrompt(category)
	prompt := buildUserPrompt(promptBase, history, o.limit, summoned)

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	span, ctx := observability.NewSpan(ctx, "moderation.generate_reply")
	defer span.End()
	span.AddAttributes(
		attribute.String("room.category", category),
		attribute.Bool("summoned", summoned),
	)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(promptBase),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		span.SetError(err)
		middleware.Logger.WarnContext(ctx, "moderator reply generation failed",
			"category", category, "summoned", summoned, "error", err)
		observability.ModeratorFallbacks.WithLabelValues("error").Inc()
		return FallbackCheckIn
	}

	if len(resp.Choices) == 0 {
		observability.ModeratorFallbacks.WithLabelValues("empty").Inc()
		return FallbackQuiet
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		observability.ModeratorFallbacks.WithLabelValues("empty").Inc()
		return FallbackQuiet
	}
	return reply
}
