// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes screentime tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/screentime/internal/models"
	"github.com/starford/screentime/internal/timeservice"
	"github.com/starford/screentime/internal/version"
)

// Server wraps the MCP server with screentime tools.
type Server struct {
	mcp *server.MCPServer
	svc *timeservice.Service
}

// New creates a new MCP server with all screentime tools registered.
func New(svc *timeservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Screentime",
		version.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_adjusted_time",
		mcp.WithDescription("Current adjusted screen time in minutes and as H:MM."),
	), s.getAdjustedTime)

	s.mcp.AddTool(mcp.NewTool("list_adjustment_types",
		mcp.WithDescription("List the adjustment types (named rules with a signed minute value)."),
		mcp.WithNumber("limit", mcp.Description("Max results, 0-255 (default 10)")),
	), s.listAdjustmentTypes)

	s.mcp.AddTool(mcp.NewTool("list_adjustments",
		mcp.WithDescription("List recorded adjustments, newest first."),
		mcp.WithNumber("limit", mcp.Description("Max results, 0-255 (default 10)")),
		mcp.WithNumber("type", mcp.Description("Only adjustments of this adjustment type id")),
		mcp.WithString("since", mcp.Description("Only adjustments created at or after this RFC3339 timestamp")),
	), s.listAdjustments)

	s.mcp.AddTool(mcp.NewTool("add_adjustment",
		mcp.WithDescription("Apply an adjustment type now. Read the "+RulesURI+" resource first."),
		mcp.WithNumber("type", mcp.Required(), mcp.Description("Adjustment type id")),
		mcp.WithString("comment", mcp.Description("Optional note, at most 255 characters")),
	), s.addAdjustment)

	s.mcp.AddTool(mcp.NewTool("add_time_entry",
		mcp.WithDescription("Reset the base screen time. Earlier adjustments stop counting."),
		mcp.WithNumber("time", mcp.Required(), mcp.Description("New base time in minutes (0-65535)")),
	), s.addTimeEntry)

	s.mcp.AddResource(
		mcp.NewResource(RulesURI, "Screen Time Rules",
			mcp.WithResourceDescription("How adjustments and time entries combine into the current screen time."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRulesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// wholeNumber converts a JSON number argument to an integer in [0, max].
func wholeNumber(name string, v, max float64) (uint64, error) {
	if v < 0 || v > max || v != math.Trunc(v) {
		return 0, fmt.Errorf("%s must be a whole number between 0 and %.0f", name, max)
	}
	return uint64(v), nil
}

func optionalLimit(req mcp.CallToolRequest) (*uint8, error) {
	v := req.GetFloat("limit", -1)
	if v == -1 {
		return nil, nil
	}
	n, err := wholeNumber("limit", v, math.MaxUint8)
	if err != nil {
		return nil, err
	}
	limit := uint8(n)
	return &limit, nil
}

func (s *Server) getAdjustedTime(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, err := s.svc.AdjustedTime(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t), nil
}

func (s *Server) listAdjustmentTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := optionalLimit(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	types, err := s.svc.ListAdjustmentTypes(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(types) == 0 {
		return mcp.NewToolResultText("no adjustment types defined"), nil
	}
	return jsonResult(types), nil
}

func (s *Server) listAdjustments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var f models.AdjustmentFilter
	var err error
	if f.Limit, err = optionalLimit(req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if v := req.GetFloat("type", -1); v != -1 {
		id, err := wholeNumber("type", v, math.MaxInt64)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		f.TypeID = &id
	}
	if raw := req.GetString("since", ""); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError("since must be an RFC3339 timestamp"), nil
		}
		f.Since = &since
	}

	adjustments, err := s.svc.ListAdjustments(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(adjustments) == 0 {
		return mcp.NewToolResultText("no adjustments found"), nil
	}
	return jsonResult(adjustments), nil
}

func (s *Server) addAdjustment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := req.RequireFloat("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	typeID, err := wholeNumber("type", v, math.MaxInt64)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := models.NewAdjustment{AdjustmentTypeID: typeID}
	if c := req.GetString("comment", ""); c != "" {
		in.Comment = &c
	}
	a, err := s.svc.CreateAdjustment(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.svc.AdjustedTime(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"adjustment": a, "adjusted_time": t}), nil
}

func (s *Server) addTimeEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := req.RequireFloat("time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	minutes, err := wholeNumber("time", v, math.MaxUint16)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := s.svc.CreateTimeEntry(ctx, models.NewTimeEntry{Time: uint16(minutes)})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(e), nil
}

func (s *Server) readRulesResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      RulesURI,
			MIMEType: "text/markdown",
			Text:     Rules,
		},
	}, nil
}
