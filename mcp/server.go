// Package mcp exposes the remedy knowledge store as MCP (Model Context
// Protocol) tools so agent frameworks can consult and update it over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperengineering/remedy"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with remedy tools.
type Server struct {
	client    *remedy.Client
	mcpServer *server.MCPServer
}

// ToolResult represents the result of a tool call.
type ToolResult struct {
	Content string
	IsError bool
}

// ToolInfo represents a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// NewServer creates a new MCP server with remedy tools registered.
func NewServer(client *remedy.Client) *Server {
	s := &Server{client: client}

	s.mcpServer = server.NewMCPServer(
		"remedy",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()
	return s
}

// Run starts the MCP server, reading from stdin and writing to stdout.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// HandleMessage processes a raw JSON-RPC message and returns a response.
// This is primarily for testing the MCP protocol layer.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return []ToolInfo{
		{Name: "remedy_find", Description: "Find resolution patterns with problem signatures similar to a query"},
		{Name: "remedy_rank", Description: "Retrieve resolution patterns ranked by confidence, success rate, or recency"},
		{Name: "remedy_save", Description: "Save a problem/solution pair as a resolution pattern"},
		{Name: "remedy_outcome", Description: "Report whether applying a pattern resolved the problem"},
		{Name: "remedy_issue", Description: "Record a sighting of a common issue signature"},
		{Name: "remedy_stats", Description: "Show aggregate statistics about the pattern store"},
	}
}

// CallTool executes a tool by name with the given arguments.
// This is used for testing and direct invocation.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	switch name {
	case "remedy_find":
		return s.handleFind(ctx, args)
	case "remedy_rank":
		return s.handleRank(ctx, args)
	case "remedy_save":
		return s.handleSave(ctx, args)
	case "remedy_outcome":
		return s.handleOutcome(ctx, args)
	case "remedy_issue":
		return s.handleIssue(ctx, args)
	case "remedy_stats":
		return s.handleStats(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("remedy_find",
		mcp.WithDescription("Find resolution patterns whose problem signatures lexically overlap a free-text query. Returns patterns sorted by similarity score."),
		mcp.WithString("query",
			mcp.Description("Free-text problem description to match against stored signatures"),
			mcp.Required(),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Minimum Jaccard score 0.0-1.0 (default: 0.3)"),
		),
	), s.mcpHandleFind)

	s.mcpServer.AddTool(mcp.NewTool("remedy_rank",
		mcp.WithDescription("Retrieve resolution patterns at or above a minimum confidence, sorted by the chosen key."),
		mcp.WithNumber("min_confidence",
			mcp.Description("Minimum confidence threshold 0.0-1.0 (default: 0)"),
		),
		mcp.WithString("sort_by",
			mcp.Description("Sort key: confidence, successRate, or recentUse (default: confidence)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: unlimited)"),
		),
	), s.mcpHandleRank)

	s.mcpServer.AddTool(mcp.NewTool("remedy_save",
		mcp.WithDescription("Save a problem/solution pair as a resolution pattern for future retrieval."),
		mcp.WithString("signature",
			mcp.Description("Free-text problem signature used for similarity search"),
			mcp.Required(),
		),
		mcp.WithString("solution",
			mcp.Description("Solution payload as a JSON value; stored verbatim"),
			mcp.Required(),
		),
		mcp.WithString("problem_type",
			mcp.Description("Coarse problem category, e.g. protocol, security"),
		),
		mcp.WithString("schema_version",
			mcp.Description("Schema version tag for the solution payload"),
		),
	), s.mcpHandleSave)

	s.mcpServer.AddTool(mcp.NewTool("remedy_outcome",
		mcp.WithDescription("Report whether applying a pattern resolved the problem. Accepts a pattern ID or a ref of a pattern surfaced this session."),
		mcp.WithString("id",
			mcp.Description("Pattern ID or session ref"),
			mcp.Required(),
		),
		mcp.WithBoolean("success",
			mcp.Description("Whether the pattern resolved the problem"),
			mcp.Required(),
		),
		mcp.WithNumber("resolution_time_ms",
			mcp.Description("Observed resolution time in milliseconds (success only)"),
		),
	), s.mcpHandleOutcome)

	s.mcpServer.AddTool(mcp.NewTool("remedy_issue",
		mcp.WithDescription("Record a sighting of a common issue signature, creating the tally on first sighting."),
		mcp.WithString("signature",
			mcp.Description("Issue signature"),
			mcp.Required(),
		),
		mcp.WithString("context",
			mcp.Description("Environment tag, e.g. production, staging"),
		),
	), s.mcpHandleIssue)

	s.mcpServer.AddTool(mcp.NewTool("remedy_stats",
		mcp.WithDescription("Show aggregate statistics about the pattern store."),
	), s.mcpHandleStats)
}

// MCP handlers that wrap internal handlers

func (s *Server) mcpHandleFind(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleFind(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleRank(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleRank(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleSave(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleOutcome(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleOutcome(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleIssue(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleStats(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func toMCPResult(r *ToolResult) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: r.Content,
			},
		},
	}
	if r.IsError {
		result.IsError = true
	}
	return result
}

// Internal handlers

func (s *Server) handleFind(ctx context.Context, args map[string]any) (*ToolResult, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return &ToolResult{Content: "query is required", IsError: true}, nil
	}

	threshold := 0.3
	if t, ok := args["threshold"].(float64); ok {
		threshold = t
	}

	matches, err := s.client.FindSimilarPatterns(query, threshold)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("find failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: formatMatches(matches)}, nil
}

func (s *Server) handleRank(ctx context.Context, args map[string]any) (*ToolResult, error) {
	params := remedy.RankParams{SortBy: remedy.RankByConfidence}

	if mc, ok := args["min_confidence"].(float64); ok {
		params.MinConfidence = mc
	}
	if sb, ok := args["sort_by"].(string); ok && sb != "" {
		params.SortBy = remedy.RankBy(sb)
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Limit = int(limit)
	}

	patterns, err := s.client.RetrievePatternsByRank(params)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("rank failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: formatPatterns(patterns)}, nil
}

func (s *Server) handleSave(ctx context.Context, args map[string]any) (*ToolResult, error) {
	signature, ok := args["signature"].(string)
	if !ok || signature == "" {
		return &ToolResult{Content: "signature is required", IsError: true}, nil
	}

	solution, ok := args["solution"].(string)
	if !ok || solution == "" {
		return &ToolResult{Content: "solution is required", IsError: true}, nil
	}
	if !json.Valid([]byte(solution)) {
		return &ToolResult{Content: "solution must be valid JSON", IsError: true}, nil
	}

	pattern := remedy.ResolutionPattern{
		Signature: signature,
		Solution:  remedy.Solution{Data: json.RawMessage(solution)},
	}
	if pt, ok := args["problem_type"].(string); ok {
		pattern.ProblemType = pt
	}
	if sv, ok := args["schema_version"].(string); ok {
		pattern.Solution.SchemaVersion = sv
	}

	if err := s.client.SavePattern(&pattern); err != nil {
		return &ToolResult{Content: fmt.Sprintf("save failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: fmt.Sprintf("Saved pattern %s (confidence %.2f)", pattern.ID, pattern.Confidence)}, nil
}

func (s *Server) handleOutcome(ctx context.Context, args map[string]any) (*ToolResult, error) {
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return &ToolResult{Content: "id is required", IsError: true}, nil
	}

	success, ok := args["success"].(bool)
	if !ok {
		return &ToolResult{Content: "success is required", IsError: true}, nil
	}

	var (
		pattern *remedy.ResolutionPattern
		err     error
	)
	if success {
		var resolution time.Duration
		if ms, ok := args["resolution_time_ms"].(float64); ok {
			resolution = time.Duration(ms * float64(time.Millisecond))
		}
		pattern, err = s.client.ReportSuccess(id, resolution)
	} else {
		pattern, err = s.client.ReportFailure(id)
	}

	if errors.Is(err, remedy.ErrNotFound) {
		return &ToolResult{Content: fmt.Sprintf("no pattern with ID %q", id), IsError: true}, nil
	}
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("outcome failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: fmt.Sprintf(
		"Recorded outcome for %s: confidence %.2f (%d success / %d failure)",
		pattern.ID, pattern.Confidence, pattern.SuccessCount, pattern.FailureCount,
	)}, nil
}

func (s *Server) handleIssue(ctx context.Context, args map[string]any) (*ToolResult, error) {
	signature, ok := args["signature"].(string)
	if !ok || signature == "" {
		return &ToolResult{Content: "signature is required", IsError: true}, nil
	}

	context := ""
	if c, ok := args["context"].(string); ok {
		context = c
	}

	issue, err := s.client.TrackIssue(signature, context)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("issue tracking failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: fmt.Sprintf("Issue %q seen %d time(s)", issue.Signature, issue.Occurrences)}, nil
}

func (s *Server) handleStats(ctx context.Context, args map[string]any) (*ToolResult, error) {
	stats, err := s.client.Statistics()
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("stats failed: %v", err), IsError: true}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Patterns: %d\n", stats.TotalPatterns)
	fmt.Fprintf(&sb, "Successes: %d, Failures: %d\n", stats.TotalSuccesses, stats.TotalFailures)
	fmt.Fprintf(&sb, "Average confidence: %.2f\n", stats.AverageConfidence)
	if stats.MostSuccessful != nil {
		fmt.Fprintf(&sb, "Most successful: %s (%d successes)\n", stats.MostSuccessful.ID, stats.MostSuccessful.SuccessCount)
	}
	for typ, count := range stats.PatternsByType {
		fmt.Fprintf(&sb, "  %s: %d\n", typ, count)
	}
	return &ToolResult{Content: sb.String()}, nil
}

func formatMatches(matches []remedy.PatternMatch) string {
	if len(matches) == 0 {
		return "No matching patterns."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d matching pattern(s):\n\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(&sb, "[%.2f] %s\n", m.Score, m.Pattern.ID)
		fmt.Fprintf(&sb, "  Signature: %s\n", m.Pattern.Signature)
		fmt.Fprintf(&sb, "  Confidence: %.2f  Solution: %s\n", m.Pattern.Confidence, string(m.Pattern.Solution.Data))
	}
	return sb.String()
}

func formatPatterns(patterns []remedy.ResolutionPattern) string {
	if len(patterns) == 0 {
		return "No patterns found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d pattern(s):\n\n", len(patterns))
	for i := range patterns {
		p := &patterns[i]
		fmt.Fprintf(&sb, "%s  conf=%.2f  %s\n", p.ID, p.Confidence, p.Signature)
	}
	return sb.String()
}
