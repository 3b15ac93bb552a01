package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatClient struct {
	lastRequest openai.ChatCompletionRequest
	response    string
	err         error
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastRequest = request
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	if s.response == "" {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.response}},
		},
	}, nil
}

func TestOpenAICallerGenerate(t *testing.T) {
	stub := &stubChatClient{response: "RCV minus depreciation equals ACV [KB-1]."}
	caller := &OpenAICaller{client: stub, model: openai.GPT4oMini, systemPrompt: DefaultSystemPrompt}

	answer, err := caller.Generate(context.Background(), "How does ACV relate to RCV?", "[KB-1] ...")
	require.NoError(t, err)
	assert.Contains(t, answer, "[KB-1]")

	require.Len(t, stub.lastRequest.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, stub.lastRequest.Messages[0].Role)
	assert.Contains(t, stub.lastRequest.Messages[1].Content, "Question: How does ACV relate to RCV?")
	assert.Equal(t, openai.GPT4oMini, stub.lastRequest.Model)
}

func TestOpenAICallerError(t *testing.T) {
	wantErr := errors.New("insufficient quota")
	caller := &OpenAICaller{client: &stubChatClient{err: wantErr}, model: "gpt-4o"}

	_, err := caller.Generate(context.Background(), "q", "ctx")
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestOpenAICallerNoChoices(t *testing.T) {
	caller := &OpenAICaller{client: &stubChatClient{}, model: "gpt-4o"}

	_, err := caller.Generate(context.Background(), "q", "ctx")
	assert.Error(t, err)
}

func TestNewOpenAICallerDefaults(t *testing.T) {
	caller := NewOpenAICaller("test-key", "")
	assert.Equal(t, openai.GPT4oMini, caller.model)
	assert.Equal(t, DefaultSystemPrompt, caller.systemPrompt)
}
