package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/screentime/internal/models"
	"github.com/starford/screentime/internal/testutil"
	"github.com/starford/screentime/internal/timeservice"
)

func testServer(t *testing.T) (*Server, *timeservice.Service) {
	t.Helper()
	svc := timeservice.NewService(testutil.TestStore(t))
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_adjusted_time":
		result, err = srv.getAdjustedTime(ctx, req)
	case "list_adjustment_types":
		result, err = srv.listAdjustmentTypes(ctx, req)
	case "list_adjustments":
		result, err = srv.listAdjustments(ctx, req)
	case "add_adjustment":
		result, err = srv.addAdjustment(ctx, req)
	case "add_time_entry":
		result, err = srv.addTimeEntry(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func adjustedTime(t *testing.T, srv *Server) timeservice.AdjustedTime {
	t.Helper()
	r := callTool(t, srv, "get_adjusted_time", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("get_adjusted_time: %s", resultText(r))
	}
	var got timeservice.AdjustedTime
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return got
}

func TestAdjustedTime_Empty(t *testing.T) {
	srv, _ := testServer(t)
	if got := adjustedTime(t, srv); got.Time != 0 || got.FormattedTime != "0:00" {
		t.Errorf("empty = %+v", got)
	}
}

func TestAddTimeEntryAndAdjustment(t *testing.T) {
	srv, svc := testServer(t)
	at, err := svc.CreateAdjustmentType(context.Background(), models.NewAdjustmentType{Description: "Chores", Adjustment: 15})
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "add_time_entry", map[string]interface{}{"time": float64(60)})
	if r.IsError {
		t.Fatalf("add_time_entry: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"time_formatted": "1:00"`) {
		t.Errorf("entry result = %s", resultText(r))
	}

	r = callTool(t, srv, "add_adjustment", map[string]interface{}{"type": float64(at.ID), "comment": "dishes"})
	if r.IsError {
		t.Fatalf("add_adjustment: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"formatted_time": "1:15"`) {
		t.Errorf("adjustment result = %s", resultText(r))
	}

	if got := adjustedTime(t, srv); got.Time != 75 {
		t.Errorf("time = %d, want 75", got.Time)
	}

	r = callTool(t, srv, "list_adjustments", map[string]interface{}{"type": float64(at.ID)})
	if !strings.Contains(resultText(r), `"comment": "dishes"`) {
		t.Errorf("list_adjustments = %s", resultText(r))
	}
}

func TestAddAdjustment_Errors(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing type", map[string]interface{}{}},
		{"unknown type", map[string]interface{}{"type": float64(4)}},
		{"fractional type", map[string]interface{}{"type": 1.5}},
		{"negative type", map[string]interface{}{"type": float64(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := callTool(t, srv, "add_adjustment", tt.args); !r.IsError {
				t.Errorf("expected error, got %s", resultText(r))
			}
		})
	}
}

func TestAddTimeEntry_OutOfRange(t *testing.T) {
	srv, _ := testServer(t)
	if r := callTool(t, srv, "add_time_entry", map[string]interface{}{"time": float64(70000)}); !r.IsError {
		t.Errorf("expected error, got %s", resultText(r))
	}
}

func TestListAdjustmentTypes(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "list_adjustment_types", map[string]interface{}{})
	if resultText(r) != "no adjustment types defined" {
		t.Errorf("empty list = %q", resultText(r))
	}

	for _, d := range []string{"A", "B", "C"} {
		if _, err := svc.CreateAdjustmentType(context.Background(), models.NewAdjustmentType{Description: d, Adjustment: 1}); err != nil {
			t.Fatal(err)
		}
	}
	r = callTool(t, srv, "list_adjustment_types", map[string]interface{}{"limit": float64(2)})
	var types []models.AdjustmentType
	if err := json.Unmarshal([]byte(resultText(r)), &types); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(types) != 2 {
		t.Errorf("limited list = %d, want 2", len(types))
	}

	if r := callTool(t, srv, "list_adjustment_types", map[string]interface{}{"limit": float64(300)}); !r.IsError {
		t.Error("limit above 255 should fail")
	}
}

func TestListAdjustments_BadSince(t *testing.T) {
	srv, _ := testServer(t)
	if r := callTool(t, srv, "list_adjustments", map[string]interface{}{"since": "yesterday"}); !r.IsError {
		t.Error("expected error for non-RFC3339 since")
	}
}

func TestRulesResource(t *testing.T) {
	srv, _ := testServer(t)
	contents, err := srv.readRulesResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != RulesURI || !strings.Contains(tc.Text, "becomes zero") {
		t.Errorf("unexpected resource %+v", contents[0])
	}
}
