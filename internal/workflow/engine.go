package workflow

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/pressmith/pr-agent/internal/config"
	"github.com/pressmith/pr-agent/internal/models"
	"github.com/rs/zerolog"
)

// ModelProvider is the slice of the model client provider the engine needs.
type ModelProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Evaluate(ctx context.Context, prompt string) (models.Evaluation, error)
}

// Engine drives the generate/evaluate/branch cycle for a single topic:
// generate a draft, have the evaluator grade it, accept on "good" or loop
// back into generation carrying the evaluator's feedback. The evaluator's
// grade is the sole acceptance criterion.
type Engine struct {
	provider      ModelProvider
	generatorTmpl *template.Template
	evaluatorTmpl *template.Template
	maxIterations int
	logger        *zerolog.Logger
}

func NewEngine(provider ModelProvider, cfg *config.PromptsConfig, logger *zerolog.Logger) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("model provider is nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("prompts config is nil")
	}

	generatorTmpl, err := template.New("generator").Parse(cfg.Generator.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generator prompt template: %w", err)
	}

	evaluatorTmpl, err := template.New("evaluator").Parse(cfg.Evaluator.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse evaluator prompt template: %w", err)
	}

	return &Engine{
		provider:      provider,
		generatorTmpl: generatorTmpl,
		evaluatorTmpl: evaluatorTmpl,
		maxIterations: cfg.Workflow.MaxIterations,
		logger:        logger,
	}, nil
}

// Run executes the loop for one topic and returns the accepted statement.
// Any provider failure aborts the run immediately and propagates; the
// engine performs no retries of its own. With maxIterations == 0 the loop
// is unbounded and runs until the evaluator accepts.
func (e *Engine) Run(ctx context.Context, topic string) (string, error) {
	state := State{Topic: topic}

	e.logger.Info().Str("topic", topic).Msg("starting statement generation")

	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		// GENERATING: draft a statement, folding in the latest feedback.
		prompt, err := renderPrompt(e.generatorTmpl, state)
		if err != nil {
			return "", err
		}

		statement, err := e.provider.Generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		state.Statement = statement

		// EVALUATING: grade the draft.
		prompt, err = renderPrompt(e.evaluatorTmpl, state)
		if err != nil {
			return "", err
		}

		evaluation, err := e.provider.Evaluate(ctx, prompt)
		if err != nil {
			return "", err
		}
		state.Grade = evaluation.Grade
		state.Feedback = evaluation.Feedback

		if state.Grade == models.GradeGood {
			e.logger.Info().
				Str("topic", topic).
				Int("iterations", iteration).
				Int("statement_length", len(state.Statement)).
				Msg("statement accepted")
			return state.Statement, nil
		}

		e.logger.Info().
			Str("topic", topic).
			Int("iteration", iteration).
			Int("feedback_length", len(state.Feedback)).
			Msg("statement rejected, retrying with feedback")

		if e.maxIterations > 0 && iteration >= e.maxIterations {
			// Cap reached: keep the latest draft rather than fail the run.
			e.logger.Warn().
				Str("topic", topic).
				Int("max_iterations", e.maxIterations).
				Msg("iteration cap reached, accepting latest draft")
			return state.Statement, nil
		}
	}
}

func renderPrompt(tmpl *template.Template, state State) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, state); err != nil {
		return "", fmt.Errorf("prompt template execution failed: %w", err)
	}
	return buf.String(), nil
}
