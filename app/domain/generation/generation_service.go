package generation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mew.ai/puml-api-gateway/app/domain/conversation"
	"mew.ai/puml-api-gateway/app/utils/functional"
)

const (
	// Deterministic upstream parameters. The relay always calls the
	// provider non-streaming; client-visible streaming is simulated
	// downstream.
	samplingTemperature = 0.7
	maxCompletionTokens = 2000
)

// ChatCompletionClient is the boundary to the OpenAI-compatible provider.
type ChatCompletionClient interface {
	CreateChatCompletion(ctx context.Context, baseURL, apiKey string, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// ProviderParams carries the caller-supplied upstream endpoint, credential
// and model.
type ProviderParams struct {
	BaseURL string
	APIKey  string
	Model   string
}

// GenerationService relays prompts to the upstream provider. Each flow uses
// its own system prompt; generate additionally threads conversation history
// through the message list.
type GenerationService struct {
	client ChatCompletionClient
}

func NewGenerationService(client ChatCompletionClient) *GenerationService {
	return &GenerationService{client: client}
}

// GeneratePuml generates PlantUML code from a natural-language prompt with
// optional prior conversation history. The new user turn goes last and must
// not already be part of history.
func (s *GenerationService) GeneratePuml(ctx context.Context, params ProviderParams, history []conversation.Message, prompt string) (string, error) {
	content, err := s.complete(ctx, params, generateSystemPrompt, history, prompt)
	if err != nil {
		return "", err
	}
	return stripCodeFence(content), nil
}

// OptimizePuml rewrites existing PlantUML code. No conversation context.
func (s *GenerationService) OptimizePuml(ctx context.Context, params ProviderParams, puml string) (string, error) {
	content, err := s.complete(ctx, params, optimizeSystemPrompt, nil, puml)
	if err != nil {
		return "", err
	}
	return stripCodeFence(content), nil
}

// ExplainPuml explains a diagram in the requested language. The answer is
// prose, so surrounding fences are kept and only whitespace is trimmed.
func (s *GenerationService) ExplainPuml(ctx context.Context, params ProviderParams, puml, language string) (string, error) {
	content, err := s.complete(ctx, params, explainSystemPrompt(language), nil, puml)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// complete builds the ordered message list (system prompt, full history in
// original order, new user turn last), calls the provider synchronously and
// extracts the first choice.
func (s *GenerationService) complete(ctx context.Context, params ProviderParams, systemPrompt string, history []conversation.Message, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	messages = append(messages, functional.Map(history, func(m conversation.Message) openai.ChatCompletionMessage {
		return openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	})...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	response, err := s.client.CreateChatCompletion(ctx, params.BaseURL, params.APIKey, openai.ChatCompletionRequest{
		Model:       params.Model,
		Temperature: samplingTemperature,
		MaxTokens:   maxCompletionTokens,
		Stream:      false,
		Messages:    messages,
	})
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("failed to parse completion response: no choices returned")
	}
	return response.Choices[0].Message.Content, nil
}

var (
	fenceOpenRe  = regexp.MustCompile("^```(?:puml|plantuml)?\\s*")
	fenceCloseRe = regexp.MustCompile("```\\s*$")
)

// stripCodeFence trims whitespace and removes a surrounding fenced code
// block, optionally tagged with a language hint, exposing the inner text.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = fenceOpenRe.ReplaceAllString(content, "")
		content = fenceCloseRe.ReplaceAllString(content, "")
		content = strings.TrimSpace(content)
	}
	return content
}
