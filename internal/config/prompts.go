package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const generatorPrompt = `Generate a compelling PR statement for the topic {{.Topic}}.

- The statement should highlight key benefits, address any potential concerns, and capture the excitement and innovation surrounding the subject.
- Ensure that the tone is professional yet engaging, appealing to the target audience while maintaining clarity and impact.
{{- if .Feedback}}

Also take provided feedback into account: {{.Feedback}}
{{- end}}`

const evaluatorPrompt = `Review the following PR statement: {{.Statement}}

- Assess its clarity, engagement, and overall effectiveness in capturing the key benefits and addressing potential concerns.
- Decide whether the statement is well-formed ('good') or if it requires further refinement ('needs improvement').
- If it needs improvement, provide concise and actionable feedback on how to enhance the statement.

Respond ONLY in JSON: {"grade": "good" or "needs improvement", "feedback": "<string>"}`

// Default returns the compiled-in configuration: the canonical prompts and
// the unbounded loop.
func Default() *PromptsConfig {
	cfg := &PromptsConfig{
		Generator: RoleConfig{Prompt: generatorPrompt},
		Evaluator: RoleConfig{Prompt: evaluatorPrompt},
	}
	applyDefaults(cfg)
	return cfg
}

// LoadPromptsConfig reads the prompts configuration from
// PROMPTS_CONFIG_PATH (default configs/prompts.yaml). A missing file falls
// back to the compiled-in defaults so the binaries run without one.
func LoadPromptsConfig() (*PromptsConfig, error) {
	path := os.Getenv("PROMPTS_CONFIG_PATH")
	if path == "" {
		path = "configs/prompts.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg PromptsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *PromptsConfig) {
	if cfg.Generator.Prompt == "" {
		cfg.Generator.Prompt = generatorPrompt
	}
	if cfg.Evaluator.Prompt == "" {
		cfg.Evaluator.Prompt = evaluatorPrompt
	}
	if cfg.Generator.Model == nil {
		cfg.Generator.Model = &ModelConfig{}
	}
	if cfg.Evaluator.Model == nil {
		cfg.Evaluator.Model = &ModelConfig{}
	}
	if cfg.Generator.Model.MaxTokens == 0 {
		cfg.Generator.Model.MaxTokens = 1024
	}
	if cfg.Generator.Model.Temperature == nil {
		cfg.Generator.Model.Temperature = floatPtr(0.7)
	}
	if cfg.Evaluator.Model.MaxTokens == 0 {
		cfg.Evaluator.Model.MaxTokens = 512
	}
	if cfg.Evaluator.Model.Temperature == nil {
		// Deterministic verdicts by default.
		cfg.Evaluator.Model.Temperature = floatPtr(0)
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func (c *PromptsConfig) Validate() error {
	if c.Workflow.MaxIterations < 0 {
		return fmt.Errorf("workflow.max_iterations must not be negative, got %d", c.Workflow.MaxIterations)
	}
	if c.Generator.Prompt == "" {
		return fmt.Errorf("generator prompt is empty")
	}
	if c.Evaluator.Prompt == "" {
		return fmt.Errorf("evaluator prompt is empty")
	}
	return nil
}
