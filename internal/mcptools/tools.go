// Package mcptools exposes the address operations as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/dgellow/perfectemail/emailutil"
	"github.com/dgellow/perfectemail/internal/batch"
	"github.com/dgellow/perfectemail/internal/disposable"
	"github.com/dgellow/perfectemail/internal/log"
)

// Tool names.
const (
	ToolValidate        = "validate_email"
	ToolNormalize       = "normalize_email"
	ToolFix             = "fix_email"
	ToolCheckDisposable = "check_disposable"
	ToolFixEmails       = "fix_emails"
	ToolListProviders   = "list_providers"
)

// maxBatchInputs bounds a single fix_emails call.
const maxBatchInputs = 10000

// Toolset holds the dependencies shared by the tool handlers.
type Toolset struct {
	disposable  *disposable.Checker
	concurrency int
}

// NewToolset creates the tool handlers. concurrency bounds fix_emails.
func NewToolset(checker *disposable.Checker, concurrency int) *Toolset {
	if checker == nil {
		checker = disposable.New()
	}
	return &Toolset{disposable: checker, concurrency: concurrency}
}

// ServerTools returns every tool with its handler, ready for
// MCPServer.AddTools.
func (t *Toolset) ServerTools() []mcpserver.ServerTool {
	emailArg := mcp.WithString("email",
		mcp.Required(),
		mcp.Description("Email address as entered by the user"),
	)

	tools := []mcpserver.ServerTool{
		{
			Tool: mcp.NewTool(ToolValidate,
				mcp.WithDescription("Check an address against the strict syntax rules. The input is checked exactly as given."),
				emailArg,
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.handleValidate,
		},
		{
			Tool: mcp.NewTool(ToolNormalize,
				mcp.WithDescription("Trim, lowercase and validate an address, then drop any +tag from the local part."),
				emailArg,
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.handleNormalize,
		},
		{
			Tool: mcp.NewTool(ToolFix,
				mcp.WithDescription("Trim, lowercase and validate an address, then correct common misspellings of gmail.com, hotmail.com, icloud.com, outlook.com and yahoo.com."),
				emailArg,
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.handleFix,
		},
		{
			Tool: mcp.NewTool(ToolCheckDisposable,
				mcp.WithDescription("Report whether an address or domain belongs to a known disposable mail provider."),
				mcp.WithString("email",
					mcp.Required(),
					mcp.Description("Address, @domain, or bare domain"),
				),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.handleCheckDisposable,
		},
		{
			Tool: mcp.NewTool(ToolFixEmails,
				mcp.WithDescription("Run validate, normalize or fix over many addresses, one per line. Blank lines and lines starting with # are skipped."),
				mcp.WithString("emails",
					mcp.Required(),
					mcp.Description("Newline separated addresses"),
				),
				mcp.WithString("operation",
					mcp.Description("validate, normalize, or fix (default fix)"),
					mcp.Enum(string(batch.OpValidate), string(batch.OpNormalize), string(batch.OpFix)),
				),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.handleFixEmails,
		},
		{
			Tool: mcp.NewTool(ToolListProviders,
				mcp.WithDescription("List the canonical provider domains and the misspellings corrected for each."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: t.handleListProviders,
		},
	}

	for i := range tools {
		tools[i].Handler = logged(tools[i].Tool.Name, tools[i].Handler)
	}
	return tools
}

// logged wraps a handler with invocation logging.
func logged(name string, next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.LogTraceWithFields("mcptools", "Tool invocation requested", map[string]any{
			"tool": name,
		})

		result, err := next(ctx, request)

		switch {
		case err != nil:
			log.LogErrorWithFields("mcptools", "Tool invocation failed", map[string]any{
				"tool":  name,
				"error": err.Error(),
			})
		case result != nil && result.IsError:
			log.LogDebugWithFields("mcptools", "Tool rejected input", map[string]any{
				"tool": name,
			})
		default:
			log.LogTraceWithFields("mcptools", "Tool invocation completed", map[string]any{
				"tool": name,
			})
		}
		return result, err
	}
}

type validateResult struct {
	Email string `json:"email"`
	Valid bool   `json:"valid"`
}

type normalizeResult struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
}

type fixResult struct {
	Input   string `json:"input"`
	Fixed   string `json:"fixed"`
	Changed bool   `json:"changed"`
	Match   string `json:"match"`
}

type disposableResult struct {
	Input      string `json:"input"`
	Disposable bool   `json:"disposable"`
}

type batchItem struct {
	Input   string `json:"input"`
	Output  string `json:"output,omitempty"`
	Valid   bool   `json:"valid"`
	Changed bool   `json:"changed"`
	Match   string `json:"match,omitempty"`
	Error   string `json:"error,omitempty"`
}

type batchResult struct {
	Operation string        `json:"operation"`
	Summary   batch.Summary `json:"summary"`
	Results   []batchItem   `json:"results"`
}

type providerResult struct {
	Domain string   `json:"domain"`
	Typos  []string `json:"typos"`
}

func (t *Toolset) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(validateResult{Email: email, Valid: emailutil.IsValid(email)})
}

func (t *Toolset) handleNormalize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	normalized, err := emailutil.Normalize(email)
	if err != nil {
		return inputError(err)
	}
	return jsonResult(normalizeResult{Input: email, Normalized: normalized})
}

func (t *Toolset) handleFix(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s, err := emailutil.Suggest(email)
	if err != nil {
		return inputError(err)
	}
	return jsonResult(fixResult{
		Input:   email,
		Fixed:   s.Email,
		Changed: s.Changed(),
		Match:   s.Kind.String(),
	})
}

func (t *Toolset) handleCheckDisposable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(disposableResult{Input: email, Disposable: t.disposable.IsDisposableEmail(email)})
}

func (t *Toolset) handleFixEmails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("emails")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	op, err := batch.ParseOp(request.GetString("operation", string(batch.OpFix)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	inputs := batch.SplitLines(raw)
	if len(inputs) > maxBatchInputs {
		return mcp.NewToolResultError(fmt.Sprintf("too many addresses: %d (limit %d)", len(inputs), maxBatchInputs)), nil
	}

	processor, err := batch.NewProcessor(op, t.concurrency)
	if err != nil {
		return nil, err
	}
	results, err := processor.Process(ctx, inputs)
	if err != nil {
		return nil, err
	}

	out := batchResult{
		Operation: string(op),
		Summary:   batch.Summarize(results),
		Results:   make([]batchItem, len(results)),
	}
	for i, r := range results {
		item := batchItem{Input: r.Input, Output: r.Output, Valid: r.Valid, Changed: r.Changed}
		if op == batch.OpFix && r.Err == nil {
			item.Match = r.Match.String()
		}
		if r.Err != nil {
			item.Error = r.Err.Error()
		}
		out.Results[i] = item
	}
	return jsonResult(out)
}

func (t *Toolset) handleListProviders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	providers := emailutil.Providers()
	out := make([]providerResult, len(providers))
	for i, p := range providers {
		out[i] = providerResult{Domain: p.Domain, Typos: p.Typos()}
	}
	return jsonResult(out)
}

// inputError turns a rejected argument into a tool-level error the model can
// read. Anything else is a handler failure.
func inputError(err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, emailutil.ErrInvalidArgument) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
