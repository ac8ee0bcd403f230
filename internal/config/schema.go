package config

// PromptsConfig is the complete prompt and workflow configuration.
type PromptsConfig struct {
	Workflow  WorkflowConfig `yaml:"workflow"`
	Generator RoleConfig     `yaml:"generator"`
	Evaluator RoleConfig     `yaml:"evaluator"`
}

// WorkflowConfig tunes the generate/evaluate loop.
type WorkflowConfig struct {
	// MaxIterations caps the number of generate/evaluate rounds per run.
	// 0 means no cap: the loop runs until the evaluator accepts.
	MaxIterations int `yaml:"max_iterations"`
}

// RoleConfig describes one model invocation role: its prompt template and
// the model parameters used when invoking it.
type RoleConfig struct {
	Prompt string       `yaml:"prompt"`
	Model  *ModelConfig `yaml:"model"`
}

type ModelConfig struct {
	MaxTokens int `yaml:"max_tokens"`
	// Temperature is a pointer so an explicit 0 in the file is
	// distinguishable from an absent key.
	Temperature *float64 `yaml:"temperature"`
	Retry       bool     `yaml:"retry"`
}
