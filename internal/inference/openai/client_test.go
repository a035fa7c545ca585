package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"github.com/prite-study/pritecards/internal/inference"
)

func writeCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	mockResponse := ChatCompletionResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1677652288,
		Model:   "gpt-4o-mini",
		Choices: []Choice{
			{
				Index:        0,
				Message:      ChoiceMessage{Role: RoleAssistant, Content: content},
				FinishReason: "stop",
			},
		},
		Usage: Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	require.NoError(t, json.NewEncoder(w).Encode(mockResponse))
}

func TestClient_ExplainQuestion(t *testing.T) {
	request := inference.ExplainQuestionRequest{
		Question: "Which drug is first-line for panic disorder?",
		Options: []inference.Option{
			{Letter: "A", Text: "Haloperidol"},
			{Letter: "B", Text: "Sertraline"},
		},
		CorrectAnswers: []string{"B"},
	}

	tests := []struct {
		name              string
		mockServerHandler func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request)
		wantResponse      inference.ExplainQuestionResponse
		wantCalls         int32
		wantErrorString   string
	}{
		{
			name: "returns the completion text",
			mockServerHandler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var reqBody ChatCompletionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				assert.Equal(t, "gpt-4o-mini", reqBody.Model)
				require.Len(t, reqBody.Messages, 2)
				assert.Equal(t, RoleSystem, reqBody.Messages[0].Role)
				assert.Contains(t, reqBody.Messages[1].Content, "B. Sertraline")
				assert.Contains(t, reqBody.Messages[1].Content, "Correct answer(s): B")

				writeCompletion(t, w, "  SSRIs are first-line.  ")
			},
			wantResponse: inference.ExplainQuestionResponse{Explanation: "SSRIs are first-line.", Model: "gpt-4o-mini"},
			wantCalls:    1,
		},
		{
			name: "retries a server error",
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				if calls == 1 {
					w.WriteHeader(http.StatusBadGateway)
					return
				}
				writeCompletion(t, w, "Recovered.")
			},
			wantResponse: inference.ExplainQuestionResponse{Explanation: "Recovered.", Model: "gpt-4o-mini"},
			wantCalls:    2,
		},
		{
			name: "retries an empty completion until attempts run out",
			mockServerHandler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				writeCompletion(t, w, "")
			},
			wantCalls:       2,
			wantErrorString: "empty response content",
		},
		{
			name: "does not retry a client error",
			mockServerHandler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
			},
			wantCalls:       1,
			wantErrorString: "response error 401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.mockServerHandler(t, calls.Add(1), w, r)
			}))
			defer server.Close()

			client := &Client{
				httpClient:       resty.New().SetBaseURL(server.URL).SetHeader("Content-Type", "application/json"),
				model:            "gpt-4o-mini",
				maxRetryAttempts: 1,
				retryDelay:       time.Millisecond,
			}

			gotResponse, gotErr := client.ExplainQuestion(context.Background(), request)
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErrorString != "" {
				require.Error(t, gotErr)
				assert.Contains(t, gotErr.Error(), tt.wantErrorString)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.wantResponse, gotResponse)
		})
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("sk-test", "gpt-4o-mini", "", inference.DefaultMaxRetryAttempts)
	defer client.Close()

	assert.Equal(t, "gpt-4o-mini", client.GetModel())
	assert.Equal(t, DefaultBaseURL, client.httpClient.BaseURL())
	assert.Equal(t, uint(3), client.maxRetryAttempts)

	custom := NewClient("sk-test", "local", "http://localhost:11434/v1/", 0)
	defer custom.Close()
	assert.Equal(t, "http://localhost:11434/v1", custom.httpClient.BaseURL())
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rate limited", err: &ResponseError{StatusCode: 429}, want: true},
		{name: "server error", err: &ResponseError{StatusCode: 503}, want: true},
		{name: "bad request", err: &ResponseError{StatusCode: 400}, want: false},
		{name: "empty content", err: errEmptyContent, want: true},
		{name: "other error", err: assert.AnError, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}
