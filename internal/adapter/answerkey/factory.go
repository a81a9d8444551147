package answerkey

import (
	"fmt"

	"exam-mixer/internal/config"
	"exam-mixer/internal/domain"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	defaultOllamaModel = "qwen2.5:7b"
)

// New builds the filler selected by cfg.Provider. An empty provider disables
// AI answer keys and returns a nil filler.
func New(cfg config.AnswerKeyConfig) (domain.AnswerKeyFiller, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case ProviderOllama:
		model := cfg.Model
		if model == "" {
			model = defaultOllamaModel
		}
		return NewOllamaFiller(cfg.ServerURL, model, cfg.Timeout)
	case ProviderOpenAI:
		baseURL := cfg.ServerURL
		if baseURL == config.DefaultOllamaURL {
			baseURL = ""
		}
		return NewOpenAIFiller(cfg.APIKey, cfg.Model, baseURL, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown answer key provider %q", cfg.Provider)
	}
}
