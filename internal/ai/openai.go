package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/nhle/jarvis/internal/model"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient interprets commands through an OpenAI-compatible chat
// completions endpoint.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
	context   *ConversationContext
}

// NewOpenAIClient creates an OpenAI-backed interpreter. cfg.BaseURL
// points it at any compatible server.
func NewOpenAIClient(cfg model.AIConfig, apiKey string) *OpenAIClient {
	oc := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout()}

	modelName := cfg.Model
	if modelName == "" || modelName == defaultModel {
		modelName = defaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(oc),
		model:     modelName,
		maxTokens: maxTokens,
		context:   NewConversationContext(0),
	}
}

// Interpret sends one command and validates the reply.
func (o *OpenAIClient) Interpret(
	ctx context.Context,
	req Request,
	p model.Personality,
) (Interpretation, error) {
	userMsg := buildUserMessage(req)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(p)},
	}
	for _, m := range o.context.GetMessages() {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMsg,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               o.model,
		Messages:            messages,
		MaxCompletionTokens: o.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Interpretation{}, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Interpretation{}, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	raw := resp.Choices[0].Message.Content
	in, err := ParseInterpretation(raw)
	if err != nil {
		slog.Debug("unparseable model reply", "reply", raw, "finish_reason", resp.Choices[0].FinishReason)
		return Interpretation{}, err
	}

	if in.Intent == IntentQuery || in.Intent == IntentChat {
		o.context.AddExchange(userMsg, raw)
	}
	return in, nil
}
