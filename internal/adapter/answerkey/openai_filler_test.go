package answerkey

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exam-mixer/internal/domain"
)

func newChatServer(t *testing.T, status int, content string, choices bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, openai.GPT4oMini, req.Model)
		assert.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
			return
		}
		resp := openai.ChatCompletionResponse{ID: "chatcmpl-1", Object: "chat.completion", Model: req.Model}
		if choices {
			resp.Choices = []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIFiller_FillAnswers(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, "Câu 1: Đáp án D\nCâu 2: Đáp án B", true)
	defer srv.Close()

	filler, err := NewOpenAIFiller("sk-test", "", srv.URL+"/v1", time.Second)
	require.NoError(t, err)

	answers, err := filler.FillAnswers(context.Background(), "1. q\n\n2. r\n", 2)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "D", 2: "B"}, answers)
}

func TestOpenAIFiller_Errors(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := newChatServer(t, http.StatusTooManyRequests, "", false)
		defer srv.Close()

		filler, err := NewOpenAIFiller("sk-test", "", srv.URL+"/v1", time.Second)
		require.NoError(t, err)
		_, err = filler.FillAnswers(context.Background(), "1. q", 1)
		assert.True(t, domain.HasCode(err, domain.CodeAnswerKeyServiceError))
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := newChatServer(t, http.StatusOK, "", false)
		defer srv.Close()

		filler, err := NewOpenAIFiller("sk-test", "", srv.URL+"/v1", time.Second)
		require.NoError(t, err)
		_, err = filler.FillAnswers(context.Background(), "1. q", 1)
		assert.True(t, domain.HasCode(err, domain.CodeAnswerKeyServiceError))
	})
}

func TestNewOpenAIFiller_RequiresKey(t *testing.T) {
	_, err := NewOpenAIFiller("", "", "", 0)
	assert.ErrorContains(t, err, "API key cannot be empty")
}
