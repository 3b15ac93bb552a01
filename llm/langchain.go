// Package llm adapts third-party language-model clients to the
// basin.LLMFunc collaborator shape. The adapters only handle prompt
// assembly and response extraction; retrieval gating stays in the engine.
package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/adjusterhq/basin"
)

// DefaultSystemPrompt instructs the model to answer strictly from the
// supplied knowledge-base context and to cite [KB-n] markers.
const DefaultSystemPrompt = `You are an insurance claims analysis assistant.
Answer using ONLY the knowledge base context provided. Cite supporting
passages with their [KB-n] markers. If the context does not contain the
answer, say so instead of guessing.`

// LangchainCaller wraps a langchaingo model as a basin LLM collaborator.
type LangchainCaller struct {
	model        llms.Model
	systemPrompt string
	options      []llms.CallOption
}

// NewLangchainCaller creates a caller around any langchaingo llms.Model.
func NewLangchainCaller(model llms.Model, opts ...llms.CallOption) *LangchainCaller {
	return &LangchainCaller{
		model:        model,
		systemPrompt: DefaultSystemPrompt,
		options:      opts,
	}
}

// WithSystemPrompt replaces the system prompt.
func (c *LangchainCaller) WithSystemPrompt(prompt string) *LangchainCaller {
	c.systemPrompt = prompt
	return c
}

// Func returns the basin.LLMFunc for a given question. The engine supplies
// the rendered context block; the caller folds it into the prompt.
func (c *LangchainCaller) Func(question string) basin.LLMFunc[string] {
	return func(ctx context.Context, kbContext string, _ []basin.Match) (string, error) {
		return c.Generate(ctx, question, kbContext)
	}
}

// Generate produces an answer to the question grounded in the context block.
func (c *LangchainCaller) Generate(ctx context.Context, question, kbContext string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nQuestion: %s\n\nAnswer:", kbContext, question)

	messages := []llms.MessageContent{
		llms.TextParts("system", c.systemPrompt),
		llms.TextParts("human", prompt),
	}

	response, err := c.model.GenerateContent(ctx, messages, c.options...)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return response.Choices[0].Content, nil
}
