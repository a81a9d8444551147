package answerkey

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"exam-mixer/internal/domain"
	"exam-mixer/internal/logger"
)

// OpenAIFiller implements domain.AnswerKeyFiller with the OpenAI chat API.
type OpenAIFiller struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIFiller creates an OpenAI backed filler. baseURL may be empty to use
// the public endpoint.
func NewOpenAIFiller(apiKey, model, baseURL string, timeout time.Duration) (*OpenAIFiller, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIFiller{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}, nil
}

// FillAnswers implements domain.AnswerKeyFiller
func (f *OpenAIFiller) FillAnswers(ctx context.Context, examText string, questionCount int) (map[int]string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       f.model,
			Temperature: 0.1,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "Bạn là giáo viên chấm thi trắc nghiệm.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: BuildPrompt(examText, questionCount),
				},
			},
		},
	)
	if err != nil {
		logger.Get().Error("OpenAI answer key request failed", zap.String("model", f.model), zap.Error(err))
		return nil, domain.NewAnswerKeyServiceError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewAnswerKeyServiceError(fmt.Errorf("empty response from model %s", f.model))
	}

	return ParseAnswers(resp.Choices[0].Message.Content, questionCount), nil
}

var _ domain.AnswerKeyFiller = (*OpenAIFiller)(nil)
