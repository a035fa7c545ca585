package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/prite-study/pritecards/internal/inference"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
	retryDelay       time.Duration
}

// NewClient talks to an OpenAI-compatible chat completions API. An empty
// baseURL uses the OpenAI endpoint.
func NewClient(apiKey, model, baseURL string, retryAttempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(60 * time.Second)

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
		retryDelay:       500 * time.Millisecond,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ResponseError is a non-2xx answer from the API.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Body)
}

var errEmptyContent = errors.New("empty response content")

// isRetryableError reports whether another attempt may succeed: rate limits,
// server errors, empty completions and network failures.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == 429 || respErr.StatusCode >= 500
	}
	if errors.Is(err, errEmptyContent) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}

const explainSystemPrompt = `You are a board-certified psychiatrist and neurologist tutoring a resident for the PRITE exam.
Explain why the marked answer(s) are correct and briefly why each other option is wrong.
Keep it under 250 words, use plain Markdown, and do not restate the question.`

func (client *Client) getRequestBody(args inference.ExplainQuestionRequest) ChatCompletionRequest {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", args.Question)
	if args.Instructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", args.Instructions)
	}
	b.WriteString("Options:\n")
	for _, o := range args.Options {
		fmt.Fprintf(&b, "%s. %s\n", o.Letter, o.Text)
	}
	fmt.Fprintf(&b, "Correct answer(s): %s\n", strings.Join(args.CorrectAnswers, ", "))

	return ChatCompletionRequest{
		Model: client.model,
		Messages: []Message{
			{Role: RoleSystem, Content: explainSystemPrompt},
			{Role: RoleUser, Content: b.String()},
		},
		Temperature: 0.2,
	}
}

// ExplainQuestion implements the inference.Client interface
func (client *Client) ExplainQuestion(
	ctx context.Context,
	params inference.ExplainQuestionRequest,
) (inference.ExplainQuestionResponse, error) {
	var result inference.ExplainQuestionResponse
	if err := retry.Do(
		func() error {
			response, err := client.explainQuestion(ctx, params)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Default().Warn("openai request failed, will retry", "error", err)
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.Delay(client.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return inference.ExplainQuestionResponse{}, err
	}
	return result, nil
}

func (client *Client) explainQuestion(
	ctx context.Context,
	args inference.ExplainQuestionRequest,
) (inference.ExplainQuestionResponse, error) {
	requestBody := client.getRequestBody(args)

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return inference.ExplainQuestionResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.ExplainQuestionResponse{}, &ResponseError{StatusCode: response.StatusCode(), Body: response.String()}
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return inference.ExplainQuestionResponse{}, fmt.Errorf("%w: no choices in %s", errEmptyContent, response.String())
	}
	content := strings.TrimSpace(responseBody.Choices[0].Message.Content)
	if content == "" {
		return inference.ExplainQuestionResponse{}, errEmptyContent
	}
	slog.Default().Debug("openai response content",
		"model", responseBody.Model,
		"totalTokens", responseBody.Usage.TotalTokens,
	)

	model := responseBody.Model
	if model == "" {
		model = client.model
	}
	return inference.ExplainQuestionResponse{Explanation: content, Model: model}, nil
}
