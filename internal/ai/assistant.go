// Package ai delegates command interpretation to a hosted language model.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nhle/jarvis/internal/model"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 512
	defaultBaseURL   = "https://api.anthropic.com"
	messagesPath     = "/v1/messages"
	apiVersion       = "2023-06-01"
)

// Interpreter turns a user command into a structured interpretation.
type Interpreter interface {
	Interpret(ctx context.Context, req Request, p model.Personality) (Interpretation, error)
}

// ErrNoAPIKey is returned by New when no key is configured.
var ErrNoAPIKey = errors.New("no API key configured")

// New returns the interpreter for cfg.Provider.
func New(cfg model.AIConfig, apiKey string) (Interpreter, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	switch cfg.Provider {
	case "", "anthropic":
		return NewAnthropicClient(cfg, apiKey), nil
	case "openai":
		return NewOpenAIClient(cfg, apiKey), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// AnthropicClient talks to the Claude Messages API.
type AnthropicClient struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	context   *ConversationContext
	client    *http.Client
}

// NewAnthropicClient creates a Claude-backed interpreter.
func NewAnthropicClient(cfg model.AIConfig, apiKey string) *AnthropicClient {
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &AnthropicClient{
		apiKey:    apiKey,
		baseURL:   baseURL,
		model:     modelName,
		maxTokens: maxTokens,
		context:   NewConversationContext(0),
		client:    &http.Client{Timeout: cfg.Timeout()},
	}
}

// Reset clears the conversation history.
func (a *AnthropicClient) Reset() {
	a.context.Reset()
}

// Interpret sends one command and validates the reply.
func (a *AnthropicClient) Interpret(
	ctx context.Context,
	req Request,
	p model.Personality,
) (Interpretation, error) {
	userMsg := buildUserMessage(req)

	resp, err := a.callAPI(ctx, buildSystemPrompt(p), a.buildAPIMessages(userMsg))
	if err != nil {
		return Interpretation{}, err
	}

	var textParts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			textParts = append(textParts, block.Text)
		}
	}
	raw := strings.Join(textParts, "")

	in, err := ParseInterpretation(raw)
	if err != nil {
		slog.Debug("unparseable model reply", "reply", raw)
		return Interpretation{}, err
	}

	if in.Intent == IntentQuery || in.Intent == IntentChat {
		a.context.AddExchange(userMsg, raw)
	}
	return in, nil
}

// callAPI makes a single request to the Claude Messages API.
func (a *AnthropicClient) callAPI(
	ctx context.Context,
	system string,
	messages []apiMessage,
) (*apiResponse, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    system,
		Messages:  messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, a.baseURL+messagesPath, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// buildAPIMessages prepends the stored exchanges to the new user turn.
func (a *AnthropicClient) buildAPIMessages(userMsg string) []apiMessage {
	history := a.context.GetMessages()
	messages := make([]apiMessage, 0, len(history)+1)

	for _, msg := range history {
		messages = append(messages, apiMessage{
			Role:    string(msg.Role),
			Content: []apiContentBlock{{Type: "text", Text: msg.Content}},
		})
	}

	return append(messages, apiMessage{
		Role:    string(RoleUser),
		Content: []apiContentBlock{{Type: "text", Text: userMsg}},
	})
}

// --- Claude API types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
