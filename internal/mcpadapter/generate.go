package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pressmith/pr-agent/internal/models"
	"github.com/pressmith/pr-agent/internal/workflow"
)

// GenerateInput is the MCP tool input schema (matches HTTP API field names).
type GenerateInput struct {
	Topic string `json:"topic" jsonschema:"topic for the PR statement (1-500 characters)"`
}

// GenerateOutput carries the accepted statement back to the MCP client.
type GenerateOutput struct {
	PRStatement string `json:"pr_statement"`
}

// NewGenerateHandler returns a tool handler that runs the generation loop.
// Pass the returned function to mcp.AddTool. Provider failures surface as
// tool errors; MCP clients decide their own fallback policy.
func NewGenerateHandler(engine *workflow.Engine) func(context.Context, *mcp.CallToolRequest, GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
		return GenerateStatement(ctx, engine, req, input)
	}
}

// GenerateStatement validates the topic, runs the loop, and returns the
// accepted statement.
func GenerateStatement(
	ctx context.Context,
	engine *workflow.Engine,
	req *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	if err := (models.StatementRequest{Topic: input.Topic}).Validate(); err != nil {
		return nil, GenerateOutput{}, err
	}

	statement, err := engine.Run(ctx, input.Topic)
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	return nil, GenerateOutput{PRStatement: statement}, nil
}
