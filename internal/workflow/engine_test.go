package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pressmith/pr-agent/internal/config"
	"github.com/pressmith/pr-agent/internal/llm"
	"github.com/pressmith/pr-agent/internal/models"
	"github.com/rs/zerolog"
)

// scriptedProvider returns canned statements and evaluations in order and
// records every prompt it sees.
type scriptedProvider struct {
	statements  []string
	evaluations []models.Evaluation

	generateErr error
	evaluateErr error

	generatePrompts []string
	evaluatePrompts []string
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.generatePrompts = append(p.generatePrompts, prompt)
	if p.generateErr != nil {
		return "", p.generateErr
	}
	i := len(p.generatePrompts) - 1
	if i >= len(p.statements) {
		return "", fmt.Errorf("unexpected generate call %d", i+1)
	}
	return p.statements[i], nil
}

func (p *scriptedProvider) Evaluate(ctx context.Context, prompt string) (models.Evaluation, error) {
	p.evaluatePrompts = append(p.evaluatePrompts, prompt)
	if p.evaluateErr != nil {
		return models.Evaluation{}, p.evaluateErr
	}
	i := len(p.evaluatePrompts) - 1
	if i >= len(p.evaluations) {
		return models.Evaluation{}, fmt.Errorf("unexpected evaluate call %d", i+1)
	}
	return p.evaluations[i], nil
}

func newTestEngine(t *testing.T, provider ModelProvider, maxIterations int) *Engine {
	t.Helper()

	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.Workflow.MaxIterations = maxIterations

	engine, err := NewEngine(provider, cfg, &logger)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func TestEngine_Run_AcceptsFirstDraft(t *testing.T) {
	provider := &scriptedProvider{
		statements:  []string{"Statement A"},
		evaluations: []models.Evaluation{{Grade: models.GradeGood, Feedback: ""}},
	}

	engine := newTestEngine(t, provider, 0)

	statement, err := engine.Run(context.Background(), "AI-powered chatbot launch")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if statement != "Statement A" {
		t.Errorf("Expected 'Statement A', got %q", statement)
	}
	if len(provider.generatePrompts) != 1 {
		t.Errorf("Expected exactly 1 generation call, got %d", len(provider.generatePrompts))
	}
	if len(provider.evaluatePrompts) != 1 {
		t.Errorf("Expected exactly 1 evaluation call, got %d", len(provider.evaluatePrompts))
	}
	if !strings.Contains(provider.generatePrompts[0], "AI-powered chatbot launch") {
		t.Errorf("Generation prompt should contain the topic, got: %s", provider.generatePrompts[0])
	}
	if strings.Contains(provider.generatePrompts[0], "feedback into account") {
		t.Errorf("First generation prompt must not carry a feedback clause, got: %s", provider.generatePrompts[0])
	}
	if !strings.Contains(provider.evaluatePrompts[0], "Statement A") {
		t.Errorf("Evaluation prompt should embed the statement, got: %s", provider.evaluatePrompts[0])
	}
}

func TestEngine_Run_RetriesWithFeedback(t *testing.T) {
	provider := &scriptedProvider{
		statements: []string{"Draft", "Final"},
		evaluations: []models.Evaluation{
			{Grade: models.GradeNeedsImprovement, Feedback: "add benefits"},
			{Grade: models.GradeGood, Feedback: ""},
		},
	}

	engine := newTestEngine(t, provider, 0)

	statement, err := engine.Run(context.Background(), "X")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if statement != "Final" {
		t.Errorf("Expected 'Final', got %q", statement)
	}
	if len(provider.generatePrompts) != 2 {
		t.Fatalf("Expected 2 generation calls, got %d", len(provider.generatePrompts))
	}
	if len(provider.evaluatePrompts) != 2 {
		t.Fatalf("Expected 2 evaluation calls, got %d", len(provider.evaluatePrompts))
	}
	if !strings.Contains(provider.generatePrompts[1], "add benefits") {
		t.Errorf("Second generation prompt must include the feedback, got: %s", provider.generatePrompts[1])
	}
	if !strings.Contains(provider.evaluatePrompts[0], "Draft") {
		t.Errorf("First evaluation prompt should embed the first draft")
	}
	if !strings.Contains(provider.evaluatePrompts[1], "Final") {
		t.Errorf("Second evaluation prompt should embed the second draft")
	}
}

func TestEngine_Run_UsesOnlyLatestFeedback(t *testing.T) {
	provider := &scriptedProvider{
		statements: []string{"First", "Second", "Third"},
		evaluations: []models.Evaluation{
			{Grade: models.GradeNeedsImprovement, Feedback: "mention pricing"},
			{Grade: models.GradeNeedsImprovement, Feedback: "shorten the intro"},
			{Grade: models.GradeGood, Feedback: ""},
		},
	}

	engine := newTestEngine(t, provider, 0)

	if _, err := engine.Run(context.Background(), "product launch"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	third := provider.generatePrompts[2]
	if !strings.Contains(third, "shorten the intro") {
		t.Errorf("Third generation prompt must carry the latest feedback, got: %s", third)
	}
	if strings.Contains(third, "mention pricing") {
		t.Errorf("Feedback must not accumulate across iterations, got: %s", third)
	}
}

func TestEngine_Run_GenerateFailureAbortsImmediately(t *testing.T) {
	provider := &scriptedProvider{
		generateErr: &llm.ProviderError{Provider: "mock", Op: "generate", Message: "connection refused"},
	}

	engine := newTestEngine(t, provider, 0)

	_, err := engine.Run(context.Background(), "launch")
	if err == nil {
		t.Fatal("Expected error from failing generate call")
	}

	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Errorf("Expected *llm.ProviderError, got %T", err)
	}
	if len(provider.evaluatePrompts) != 0 {
		t.Errorf("Evaluator must never be called after a generate failure, got %d calls", len(provider.evaluatePrompts))
	}
}

func TestEngine_Run_EvaluateFailureAborts(t *testing.T) {
	provider := &scriptedProvider{
		statements:  []string{"Draft"},
		evaluateErr: &llm.ProviderError{Provider: "mock", Op: "evaluate", Message: "schema violation: grade \"excellent\""},
	}

	engine := newTestEngine(t, provider, 0)

	_, err := engine.Run(context.Background(), "launch")
	if err == nil {
		t.Fatal("Expected error from failing evaluate call")
	}

	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Errorf("Expected *llm.ProviderError, got %T", err)
	}
	if len(provider.generatePrompts) != 1 {
		t.Errorf("Expected no further iterations after evaluate failure, got %d generate calls", len(provider.generatePrompts))
	}
}

func TestEngine_Run_IterationCapAcceptsLatestDraft(t *testing.T) {
	provider := &scriptedProvider{
		statements: []string{"A", "B"},
		evaluations: []models.Evaluation{
			{Grade: models.GradeNeedsImprovement, Feedback: "more detail"},
			{Grade: models.GradeNeedsImprovement, Feedback: "still more detail"},
		},
	}

	engine := newTestEngine(t, provider, 2)

	statement, err := engine.Run(context.Background(), "launch")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if statement != "B" {
		t.Errorf("Expected latest draft 'B', got %q", statement)
	}
	if len(provider.generatePrompts) != 2 {
		t.Errorf("Expected exactly 2 generation calls with cap=2, got %d", len(provider.generatePrompts))
	}
}

func TestEngine_Run_ContextCancelled(t *testing.T) {
	provider := &scriptedProvider{}
	engine := newTestEngine(t, provider, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, "launch")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(provider.generatePrompts) != 0 {
		t.Errorf("Expected no provider calls after cancellation, got %d", len(provider.generatePrompts))
	}
}

func TestEngine_Run_NeverReturnsEmptyStatement(t *testing.T) {
	provider := &scriptedProvider{
		statements:  []string{"Some statement"},
		evaluations: []models.Evaluation{{Grade: models.GradeGood}},
	}

	engine := newTestEngine(t, provider, 0)

	statement, err := engine.Run(context.Background(), strings.Repeat("x", 500))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if statement == "" {
		t.Error("Run must not return an empty statement on success")
	}
}

func TestNewEngine_InvalidTemplate(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.Generator.Prompt = "{{.Invalid" // broken template syntax

	_, err := NewEngine(&scriptedProvider{}, cfg, &logger)
	if err == nil {
		t.Error("Expected error for invalid generator template")
	}
}

func TestNewEngine_NilProvider(t *testing.T) {
	logger := zerolog.Nop()

	_, err := NewEngine(nil, config.Default(), &logger)
	if err == nil {
		t.Error("Expected error for nil provider")
	}
}
