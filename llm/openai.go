package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/adjusterhq/basin"
)

// chatClient is the slice of the go-openai client the caller needs.
// Satisfied by *openai.Client; tests substitute a stub.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAICaller wraps the go-openai chat completion API as a basin LLM
// collaborator.
type OpenAICaller struct {
	client       chatClient
	model        string
	systemPrompt string
	temperature  float32
}

// NewOpenAICaller creates a caller using the given API key and model.
// An empty model defaults to gpt-4o-mini.
func NewOpenAICaller(apiKey, model string) *OpenAICaller {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICaller{
		client:       openai.NewClient(apiKey),
		model:        model,
		systemPrompt: DefaultSystemPrompt,
	}
}

// NewOpenAICallerWithClient creates a caller around an existing client.
func NewOpenAICallerWithClient(client *openai.Client, model string) *OpenAICaller {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICaller{
		client:       client,
		model:        model,
		systemPrompt: DefaultSystemPrompt,
	}
}

// WithSystemPrompt replaces the system prompt.
func (c *OpenAICaller) WithSystemPrompt(prompt string) *OpenAICaller {
	c.systemPrompt = prompt
	return c
}

// WithTemperature sets the sampling temperature.
func (c *OpenAICaller) WithTemperature(t float32) *OpenAICaller {
	c.temperature = t
	return c
}

// Func returns the basin.LLMFunc for a given question.
func (c *OpenAICaller) Func(question string) basin.LLMFunc[string] {
	return func(ctx context.Context, kbContext string, _ []basin.Match) (string, error) {
		return c.Generate(ctx, question, kbContext)
	}
}

// Generate produces an answer to the question grounded in the context block.
func (c *OpenAICaller) Generate(ctx context.Context, question, kbContext string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nQuestion: %s\n\nAnswer:", kbContext, question)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
