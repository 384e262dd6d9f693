package oracle

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultMaxTokens = 1024

// OpenAI calls any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
}

type OpenAIConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &OpenAI{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

func (o *OpenAI) Name() string {
	return "openai"
}

func (o *OpenAI) Invoke(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		Messages:  messages,
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		return "", &Error{Oracle: o.Name(), Detail: "chat completion failed", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Oracle: o.Name(), Detail: "no choices returned"}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &Error{Oracle: o.Name(), Detail: "empty completion"}
	}
	return content, nil
}
