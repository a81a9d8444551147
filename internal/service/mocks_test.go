package service

import (
	"context"
	"time"

	"exam-mixer/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuestionBankRepository ---
type MockQuestionBankRepository struct {
	mock.Mock
}

func (m *MockQuestionBankRepository) Save(ctx context.Context, bank *domain.QuestionBank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockQuestionBankRepository) GetByID(ctx context.Context, id string) (*domain.QuestionBank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestionBank), args.Error(1)
}

func (m *MockQuestionBankRepository) List(ctx context.Context, limit int) ([]*domain.QuestionBank, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuestionBank), args.Error(1)
}

func (m *MockQuestionBankRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockAnswerKeyFiller ---
type MockAnswerKeyFiller struct {
	mock.Mock
}

func (m *MockAnswerKeyFiller) FillAnswers(ctx context.Context, examText string, questionCount int) (map[int]string, error) {
	args := m.Called(ctx, examText, questionCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]string), args.Error(1)
}
