// Package ai produces best-effort bilingual enrichment through an
// OpenAI-compatible chat completions provider.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/okian/matchday/internal/config"
)

// DefaultModel is the chat model requested when none is configured.
const DefaultModel = "llama-3.3-70b-versatile"

// Request is one JSON-mode completion.
type Request struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Completer returns the raw text of the first choice.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

var errNoChoices = errors.New("completion returned no choices")

type chatCompleter struct {
	client *openai.Client
	model  string
}

// NewCompleter builds a Completer for apiKey against baseURL. It returns nil
// when the key is empty or a placeholder, which disables enrichment.
func NewCompleter(apiKey, baseURL, model string) Completer {
	if !config.KeyConfigured(apiKey) {
		return nil
	}
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = DefaultModel
	}
	return &chatCompleter{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *chatCompleter) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
