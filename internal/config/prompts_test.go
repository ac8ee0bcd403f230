package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config failed validation: %v", err)
	}

	if _, err := template.New("generator").Parse(cfg.Generator.Prompt); err != nil {
		t.Errorf("Default generator prompt does not parse: %v", err)
	}
	if _, err := template.New("evaluator").Parse(cfg.Evaluator.Prompt); err != nil {
		t.Errorf("Default evaluator prompt does not parse: %v", err)
	}

	if cfg.Workflow.MaxIterations != 0 {
		t.Errorf("Default loop should be unbounded, got max_iterations=%d", cfg.Workflow.MaxIterations)
	}
	if cfg.Evaluator.Model.Temperature == nil || *cfg.Evaluator.Model.Temperature != 0.0 {
		t.Errorf("Evaluator temperature should default to 0, got %v", cfg.Evaluator.Model.Temperature)
	}
	if cfg.Generator.Model.Temperature == nil || *cfg.Generator.Model.Temperature != 0.7 {
		t.Errorf("Generator temperature should default to 0.7, got %v", cfg.Generator.Model.Temperature)
	}
}

func TestLoadPromptsConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("PROMPTS_CONFIG_PATH", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	cfg, err := LoadPromptsConfig()
	if err != nil {
		t.Fatalf("LoadPromptsConfig failed: %v", err)
	}

	if cfg.Generator.Prompt == "" || cfg.Evaluator.Prompt == "" {
		t.Error("Expected compiled-in default prompts")
	}
}

func TestLoadPromptsConfig_FromFile(t *testing.T) {
	content := `
workflow:
  max_iterations: 3
generator:
  prompt: "Write about {{.Topic}}"
evaluator:
  prompt: "Grade {{.Statement}}"
  model:
    max_tokens: 128
`
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("PROMPTS_CONFIG_PATH", path)

	cfg, err := LoadPromptsConfig()
	if err != nil {
		t.Fatalf("LoadPromptsConfig failed: %v", err)
	}

	if cfg.Workflow.MaxIterations != 3 {
		t.Errorf("Expected max_iterations=3, got %d", cfg.Workflow.MaxIterations)
	}
	if !strings.Contains(cfg.Generator.Prompt, "Write about") {
		t.Errorf("Expected custom generator prompt, got %q", cfg.Generator.Prompt)
	}
	if cfg.Evaluator.Model.MaxTokens != 128 {
		t.Errorf("Expected evaluator max_tokens=128, got %d", cfg.Evaluator.Model.MaxTokens)
	}
	// Missing fields get defaults
	if cfg.Generator.Model == nil || cfg.Generator.Model.MaxTokens != 1024 {
		t.Error("Expected generator model defaults to be applied")
	}
}

func TestLoadPromptsConfig_ExplicitZeroTemperatureKept(t *testing.T) {
	content := `
generator:
  model:
    temperature: 0
`
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("PROMPTS_CONFIG_PATH", path)

	cfg, err := LoadPromptsConfig()
	if err != nil {
		t.Fatalf("LoadPromptsConfig failed: %v", err)
	}

	if cfg.Generator.Model.Temperature == nil || *cfg.Generator.Model.Temperature != 0 {
		t.Errorf("Explicit temperature 0 must not be overwritten by the default, got %v", cfg.Generator.Model.Temperature)
	}
}

func TestLoadPromptsConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("workflow: [not a mapping"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("PROMPTS_CONFIG_PATH", path)

	if _, err := LoadPromptsConfig(); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadPromptsConfig_NegativeMaxIterations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("workflow:\n  max_iterations: -1\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("PROMPTS_CONFIG_PATH", path)

	if _, err := LoadPromptsConfig(); err == nil {
		t.Error("Expected validation error for negative max_iterations")
	}
}

func TestValidate_EmptyPrompt(t *testing.T) {
	cfg := Default()
	cfg.Generator.Prompt = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for empty generator prompt")
	}
}
