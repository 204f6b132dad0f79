// Package narrative produces prose analyses of normalized search results and
// market trends through a language model.
package narrative

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const systemPrompt = "You are a Swiss real estate expert assisting with property search and analysis. " +
	"Base every statement on the data you are given and answer in Markdown."

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("narrative service returned no text")

// Service runs a single prompt and returns the generated text.
type Service interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// AnthropicMessager is the subset of the Anthropic client used here.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicClient implements Service on the Anthropic messages API.
type AnthropicClient struct {
	messages  AnthropicMessager
	model     string
	maxTokens int64
}

// NewAnthropicClient creates a client for the given API key.
func NewAnthropicClient(apiKey, model string, maxTokens int64) *AnthropicClient {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicClientWithMessager(&c.Messages, model, maxTokens)
}

// NewAnthropicClientWithMessager wraps an existing messager.
func NewAnthropicClientWithMessager(messages AnthropicMessager, model string, maxTokens int64) *AnthropicClient {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &AnthropicClient{messages: messages, model: model, maxTokens: maxTokens}
}

// Model returns the configured model name.
func (a *AnthropicClient) Model() string { return a.model }

func (a *AnthropicClient) Run(ctx context.Context, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
