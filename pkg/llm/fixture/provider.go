// Package fixture provides a canned assistant for local development.
package fixture

import (
	"context"

	"bioez-be/pkg/llm"
)

type Provider struct {
	Reply string
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(reply string) *Provider {
	return &Provider{Reply: reply}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Reply, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, nil, options...)
}

// Fallback answers from a secondary provider when the primary fails.
type Fallback struct {
	primary   llm.LLMProvider
	secondary llm.LLMProvider
	onFailure func(err error)
}

var _ llm.LLMProvider = &Fallback{}

func NewFallback(primary, secondary llm.LLMProvider, onFailure func(err error)) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, onFailure: onFailure}
}

func (f *Fallback) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	reply, err := f.primary.Chat(ctx, history, options...)
	if err == nil {
		return reply, nil
	}
	if f.onFailure != nil {
		f.onFailure(err)
	}
	return f.secondary.Chat(ctx, history, options...)
}

func (f *Fallback) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}
