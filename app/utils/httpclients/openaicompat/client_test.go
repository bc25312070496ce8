package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChatCompletion(t *testing.T) {
	var gotPath, gotAuth string
	var gotRequest openai.ChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "@startuml\nA->B\n@enduml"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient()
	response, err := client.CreateChatCompletion(context.Background(), server.URL, "sk-test", openai.ChatCompletionRequest{
		Model:    "gpt-4",
		Stream:   false,
		Messages: []openai.ChatCompletionMessage{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4", gotRequest.Model)
	assert.False(t, gotRequest.Stream)
	require.Len(t, response.Choices, 1)
	assert.Equal(t, "@startuml\nA->B\n@enduml", response.Choices[0].Message.Content)
}

func TestCreateChatCompletionNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.CreateChatCompletion(context.Background(), server.URL, "bad-key", openai.ChatCompletionRequest{Model: "gpt-4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCreateChatCompletionNetworkFailure(t *testing.T) {
	client := NewClient()
	_, err := client.CreateChatCompletion(context.Background(), "http://127.0.0.1:1", "key", openai.ChatCompletionRequest{Model: "gpt-4"})
	require.Error(t, err)
}
