// Package openai talks to any OpenAI-compatible chat completion endpoint.
package openai

import (
	"context"
	"fmt"
	"time"

	"bioez-be/pkg/bioapi"
	"bioez-be/pkg/llm"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Provider struct {
	transport *bioapi.Transport
	model     string
	defaults  llm.Options
}

var _ llm.LLMProvider = &Provider{}

// Request Payload Structure (OpenAI Compatible)
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewProvider(apiKey, baseURL, model string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	t := bioapi.NewTransport("LLM", baseURL, timeout)
	if apiKey != "" {
		t.WithHeader("Authorization", "Bearer "+apiKey)
	}
	return &Provider{
		transport: t,
		model:     model,
		defaults:  llm.Options{Model: model, Temperature: 0.7, MaxTokens: 1000},
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(p.defaults, options...)

	reqBody := chatRequest{
		Model:       opts.Model,
		Messages:    history,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	var chatResp chatResponse
	if _, err := p.transport.PostJSON(ctx, p.transport.URL(nil, "chat", "completions"), reqBody, &chatResp); err != nil {
		return "", err
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("llm api returned error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from llm api")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}
