package answerkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"exam-mixer/internal/domain"
	"exam-mixer/internal/logger"
)

const defaultTimeout = 60 * time.Second

// llmFiller implements domain.AnswerKeyFiller on top of a langchaingo model.
type llmFiller struct {
	model   llms.Model
	timeout time.Duration
}

// NewLLMFiller wraps an existing langchaingo model.
func NewLLMFiller(model llms.Model, timeout time.Duration) domain.AnswerKeyFiller {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &llmFiller{model: model, timeout: timeout}
}

// NewOllamaFiller connects to an Ollama server.
func NewOllamaFiller(serverURL, modelName string, timeout time.Duration) (domain.AnswerKeyFiller, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	llm, err := ollama.New(
		ollama.WithModel(modelName),
		ollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return NewLLMFiller(llm, timeout), nil
}

// FillAnswers implements domain.AnswerKeyFiller
func (f *llmFiller) FillAnswers(ctx context.Context, examText string, questionCount int) (map[int]string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	reply, err := llms.GenerateFromSinglePrompt(ctx, f.model, BuildPrompt(examText, questionCount), llms.WithTemperature(0.1))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("Answer key request timed out", zap.Duration("timeout", f.timeout))
			return nil, domain.NewAnswerKeyServiceError(fmt.Errorf("request timed out: %w", err))
		}
		l.Error("Failed to get answer key from LLM", zap.Error(err))
		return nil, domain.NewAnswerKeyServiceError(err)
	}

	answers := ParseAnswers(reply, questionCount)
	l.Debug("Parsed answer key",
		zap.Int("question_count", questionCount),
		zap.Int("answered", len(answers)))
	return answers, nil
}

var _ domain.AnswerKeyFiller = (*llmFiller)(nil)
