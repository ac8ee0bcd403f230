package llm

import "fmt"

// ConfigurationError reports missing or invalid provider configuration:
// an absent credential, an empty model id, a nil client. It is fatal at
// startup; a process holding one must not serve traffic.
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// ProviderError reports a failure from a remote model call: network,
// authentication, quota, or a structured-output schema violation. Scoped
// to one request; never fatal to the process.
type ProviderError struct {
	Provider string // backend name, e.g. "bedrock" or "openai"
	Op       string // "generate" or "evaluate"
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Provider, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Op, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
