package factory

import (
	"fmt"
	"time"

	"bioez-be/pkg/llm"
	"bioez-be/pkg/llm/fixture"
	"bioez-be/pkg/llm/ollama"
	"bioez-be/pkg/llm/openai"
)

const (
	ProviderOpenAI  = "openai"
	ProviderOllama  = "ollama"
	ProviderFixture = "fixture"
)

type Settings struct {
	Provider     string
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	FixtureReply string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case ProviderOpenAI, "":
		return openai.NewProvider(s.APIKey, s.BaseURL, s.Model, s.Timeout), nil
	case ProviderOllama:
		return ollama.NewOllamaProvider(s.BaseURL, s.Model, s.Timeout), nil
	case ProviderFixture:
		return fixture.NewProvider(s.FixtureReply), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
