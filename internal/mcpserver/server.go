// Package mcpserver exposes the workspace service as a Model Context
// Protocol server: validate, format, and analyze tools, the schema and
// examples resources, and two prompts.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"c4dsl/internal/report"
	"c4dsl/internal/resources"
	"c4dsl/internal/service"
)

// Name is the server name announced during initialization
const Name = "c4-structurizr-mcp-server"

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with all tools, resources, and prompts
// registered
func New(svc *service.WorkspaceService) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	t := &tools{svc: svc}
	s.AddTool(validateTool(), t.handleValidate)
	s.AddTool(formatTool(), t.handleFormat)
	s.AddTool(analyzeTool(), t.handleAnalyze)

	for _, r := range resources.All() {
		s.AddResource(mcp.NewResource(r.URI, r.Name,
			mcp.WithResourceDescription(r.Description),
			mcp.WithMIMEType(r.MIMEType),
		), handleResource)
	}

	s.AddPrompt(createModelPrompt(), handleCreateModel)
	s.AddPrompt(improveArchitecturePrompt(), handleImproveArchitecture)

	return s
}

// Serve runs the server over stdin and stdout until the input closes
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

type tools struct {
	svc *service.WorkspaceService
}

func contentTool(name, description, argDescription string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description(argDescription),
		),
	)
}

func validateTool() mcp.Tool {
	return contentTool("validate-dsl", "Validate C4 Structurizr DSL syntax and semantics", "The DSL content to validate")
}

func formatTool() mcp.Tool {
	return contentTool("format-dsl", "Format and prettify C4 Structurizr DSL code", "The DSL content to format")
}

func analyzeTool() mcp.Tool {
	return contentTool("analyze-model", "Analyze C4 model structure and provide insights", "The DSL content to analyze")
}

func (t *tools) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	run, err := t.svc.Validate(ctx, "mcp", content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(report.ValidationMarkdown(run.Result())), nil
}

func (t *tools) handleFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	formatted, err := t.svc.Format(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(report.FormatFailedMarkdown(err)), nil
	}
	return mcp.NewToolResultText(report.FormatMarkdown(formatted)), nil
}

func (t *tools) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	result, err := t.svc.Analyze(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(report.AnalysisFailedMarkdown(err)), nil
	}
	return mcp.NewToolResultText(report.AnalysisMarkdown(result)), nil
}

func handleResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	r, ok := resources.Lookup(req.Params.URI)
	if !ok {
		return nil, fmt.Errorf("Unknown resource: %s", req.Params.URI)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      r.URI,
			MIMEType: r.MIMEType,
			Text:     r.Text,
		},
	}, nil
}

func createModelPrompt() mcp.Prompt {
	return mcp.NewPrompt("create-model",
		mcp.WithPromptDescription("Interactive assistant for creating C4 architecture models"),
		mcp.WithArgument("type",
			mcp.ArgumentDescription("Type of model to create (simple, enterprise, microservices)"),
		),
		mcp.WithArgument("domain",
			mcp.ArgumentDescription("Domain or system name for the model"),
		),
	)
}

func improveArchitecturePrompt() mcp.Prompt {
	return mcp.NewPrompt("improve-architecture",
		mcp.WithPromptDescription("Get suggestions for improving your C4 architecture model"),
		mcp.WithArgument("current_model",
			mcp.ArgumentDescription("Your current DSL model content"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription("Area to focus on (performance, scalability, security, maintainability)"),
		),
	)
}

func handleCreateModel(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments
	text := resources.CreateModelPrompt(args["type"], args["domain"])
	return mcp.NewGetPromptResult(
		"Create a C4 architecture model",
		[]mcp.PromptMessage{mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text))},
	), nil
}

func handleImproveArchitecture(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments
	text, err := resources.ImproveArchitecturePrompt(args["current_model"], args["focus"])
	if err != nil {
		return nil, err
	}
	return mcp.NewGetPromptResult(
		"Improve a C4 architecture model",
		[]mcp.PromptMessage{mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text))},
	), nil
}
