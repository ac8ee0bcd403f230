package gpt

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pressmith/pr-agent/internal/llm"
)

type Client struct {
	Client  openai.Client
	ModelID string
}

func NewClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, &llm.ConfigurationError{Message: "OpenAI API key is required"}
	}
	if model == "" {
		return nil, &llm.ConfigurationError{Message: "OpenAI model id is required"}
	}

	openaiClient := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(3),
	)

	return &Client{
		Client:  openaiClient,
		ModelID: model,
	}, nil
}
