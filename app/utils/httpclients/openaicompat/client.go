package openaicompat

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"mew.ai/puml-api-gateway/app/utils/httpclients"
)

var restyClient *resty.Client

func Init() {
	restyClient = httpclients.NewClient("OpenAICompatClient")
}

// Client talks to any OpenAI-compatible chat completions endpoint. The base
// URL and credential travel with each request because callers supply their
// own provider.
type Client struct{}

func NewClient() *Client {
	if restyClient == nil {
		Init()
	}
	return &Client{}
}

// CreateChatCompletion posts a non-streaming chat completion request to
// {baseURL}/chat/completions with a bearer credential.
func (c *Client) CreateChatCompletion(ctx context.Context, baseURL, apiKey string, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	var completion openai.ChatCompletionResponse
	resp, err := restyClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey).
		SetBody(request).
		SetResult(&completion).
		Post(baseURL + "/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("chat completions request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("chat completions returned %d: %s", resp.StatusCode(), resp.String())
	}
	return &completion, nil
}
