package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pressmith/pr-agent/internal/config"
	"github.com/pressmith/pr-agent/internal/llm"
	"github.com/pressmith/pr-agent/internal/models"
	"github.com/rs/zerolog"
)

// Provider owns the two configured model invocation handles: a generator
// for free-form completion and an evaluator whose output is constrained to
// the Evaluation schema. Built once at startup and shared by all loop
// instances; both handles are read-only after construction.
type Provider struct {
	name      string
	client    llm.LLMClient
	generator config.ModelConfig
	evaluator config.ModelConfig
	logger    *zerolog.Logger
}

func New(name string, client llm.LLMClient, cfg *config.PromptsConfig, logger *zerolog.Logger) (*Provider, error) {
	if client == nil {
		return nil, &llm.ConfigurationError{Message: "llm client is nil"}
	}
	if cfg == nil {
		return nil, &llm.ConfigurationError{Message: "prompts config is nil"}
	}
	if cfg.Generator.Model == nil || cfg.Evaluator.Model == nil {
		return nil, &llm.ConfigurationError{Message: "model config missing (should be populated by config loader)"}
	}

	return &Provider{
		name:      name,
		client:    client,
		generator: *cfg.Generator.Model,
		evaluator: *cfg.Evaluator.Model,
		logger:    logger,
	}, nil
}

// Generate invokes the generator handle and returns the completion text.
// Any failure, including an empty completion, surfaces as a ProviderError.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.invoke(ctx, prompt, p.generator)
	if err != nil {
		return "", &llm.ProviderError{Provider: p.name, Op: "generate", Message: "model invocation failed", Cause: err}
	}

	if strings.TrimSpace(resp.Content) == "" {
		return "", &llm.ProviderError{Provider: p.name, Op: "generate", Message: "model returned an empty completion"}
	}

	p.logger.Debug().
		Str("provider", p.name).
		Int("statement_length", len(resp.Content)).
		Str("stop_reason", resp.StopReason).
		Msg("generation complete")

	return resp.Content, nil
}

// Evaluate invokes the evaluator handle and decodes its structured output.
// The grade is validated against the two-literal enum before the result is
// returned; a malformed payload or an out-of-enum grade is a ProviderError.
func (p *Provider) Evaluate(ctx context.Context, prompt string) (models.Evaluation, error) {
	var evaluation models.Evaluation

	resp, err := p.invoke(ctx, prompt, p.evaluator)
	if err != nil {
		return evaluation, &llm.ProviderError{Provider: p.name, Op: "evaluate", Message: "model invocation failed", Cause: err}
	}

	content := stripMarkdownCodeBlock(resp.Content)
	if err := json.Unmarshal([]byte(content), &evaluation); err != nil {
		return models.Evaluation{}, &llm.ProviderError{Provider: p.name, Op: "evaluate", Message: "malformed evaluation payload", Cause: err}
	}

	if !evaluation.Grade.Valid() {
		return models.Evaluation{}, &llm.ProviderError{
			Provider: p.name,
			Op:       "evaluate",
			Message:  fmt.Sprintf("schema violation: grade %q is not one of %q, %q", evaluation.Grade, models.GradeGood, models.GradeNeedsImprovement),
		}
	}

	p.logger.Debug().
		Str("provider", p.name).
		Str("grade", string(evaluation.Grade)).
		Int("feedback_length", len(evaluation.Feedback)).
		Msg("evaluation complete")

	return evaluation, nil
}

func (p *Provider) invoke(ctx context.Context, prompt string, model config.ModelConfig) (*llm.LLMResponse, error) {
	request := llm.LLMRequest{
		Prompt:    prompt,
		MaxTokens: model.MaxTokens,
	}
	if model.Temperature != nil {
		request.Temperature = *model.Temperature
	}

	if model.Retry {
		return p.client.InvokeModelWithRetry(ctx, request)
	}
	return p.client.InvokeModel(ctx, request)
}

// stripMarkdownCodeBlock removes markdown code block formatting if present
func stripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return content
		}

		closingBackticks := strings.LastIndex(content, "```")
		if closingBackticks == -1 || closingBackticks <= firstNewline {
			return content
		}

		content = content[firstNewline+1 : closingBackticks]
		content = strings.TrimSpace(content)
	}

	return content
}
