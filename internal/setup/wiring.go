package setup

import (
	"context"
	"os"

	"github.com/pressmith/pr-agent/internal/config"
	"github.com/pressmith/pr-agent/internal/llm"
	"github.com/pressmith/pr-agent/internal/llm/bedrock"
	"github.com/pressmith/pr-agent/internal/llm/gpt"
	"github.com/pressmith/pr-agent/internal/provider"
	"github.com/pressmith/pr-agent/internal/workflow"
	"github.com/rs/zerolog"
)

type Config struct {
	AWSRegion       string
	ClaudeModelID   string
	OpenAIKey       string
	OpenAIModelID   string
	DefaultProvider string
	APIPort         string
}

type Dependencies struct {
	Engine *workflow.Engine
	Logger *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", ""),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),
		APIPort:         getEnv("PR_AGENT_API_PORT", "8000"),
	}
}

// Wire builds the full dependency chain: LLM client, prompts config,
// provider handles, and the loop engine. Any ConfigurationError here must
// abort startup before the process serves traffic.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	llmClient, providerName, err := createLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	promptsCfg, err := config.LoadPromptsConfig()
	if err != nil {
		return nil, &llm.ConfigurationError{Message: "failed to load prompts config", Cause: err}
	}

	prov, err := provider.New(providerName, llmClient, promptsCfg, logger)
	if err != nil {
		return nil, err
	}

	engine, err := workflow.NewEngine(prov, promptsCfg, logger)
	if err != nil {
		return nil, &llm.ConfigurationError{Message: "failed to build workflow engine", Cause: err}
	}

	return &Dependencies{
		Engine: engine,
		Logger: logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, cfg *Config) (llm.LLMClient, string, error) {
	switch cfg.DefaultProvider {
	case "openai":
		client, err := gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
		return client, "openai", err
	default:
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
		return client, "bedrock", err
	}
}
