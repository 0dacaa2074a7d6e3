package mcpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hylla/hemma/internal/app"
	"github.com/hylla/hemma/internal/domain"
)

// stubService provides deterministic board responses for MCP tool tests.
type stubService struct {
	board domain.Board
	task  domain.Task
	err   error

	lastMoveItemID   string
	lastMoveColumnID string
	lastMoveIndex    int
	lastCreateTask   app.CreateTaskInput
	lastTaskID       string
}

func (s *stubService) BuildBoard(context.Context) (domain.Board, error) {
	if s.err != nil {
		return domain.Board{}, s.err
	}
	return s.board, nil
}

func (s *stubService) MoveItem(_ context.Context, itemID, toColumnID string, toIndex int) error {
	s.lastMoveItemID = itemID
	s.lastMoveColumnID = toColumnID
	s.lastMoveIndex = toIndex
	return s.err
}

func (s *stubService) CreateTask(_ context.Context, in app.CreateTaskInput) (domain.Task, error) {
	s.lastCreateTask = in
	if s.err != nil {
		return domain.Task{}, s.err
	}
	return s.task, nil
}

func (s *stubService) CompleteTask(_ context.Context, taskID string) (domain.Task, error) {
	s.lastTaskID = taskID
	if s.err != nil {
		return domain.Task{}, s.err
	}
	return s.task, nil
}

// fixtureBoard builds a one-lane board with a task and a feed row.
func fixtureBoard() domain.Board {
	return domain.Board{Columns: []domain.BoardColumn{
		{
			Column: domain.Column{ID: "today", Name: "Today", Position: 0, AcceptsDrop: true},
			Items: []domain.Item{
				{ID: "t1", Kind: domain.ItemKindTask, Title: "Buy milk"},
				{ID: "x1", Kind: domain.ItemKindExternal, Title: "PE day", FeedName: "school"},
			},
		},
	}}
}

// jsonRPCResponse models minimal JSON-RPC response fields used in adapter tests.
type jsonRPCResponse struct {
	ID     float64        `json:"id"`
	Result map[string]any `json:"result"`
}

// callToolRequest constructs one deterministic tools/call JSON-RPC request payload.
func callToolRequest(id int, toolName string, arguments map[string]any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      toolName,
			"arguments": arguments,
		},
	}
}

// initializeRequest builds a deterministic MCP initialize request payload.
func initializeRequest() map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
			"clientInfo": map[string]any{
				"name":    "hemma-test",
				"version": "1.0.0",
			},
		},
	}
}

// postJSONRPC sends one JSON-RPC payload and decodes the response body.
func postJSONRPC(t *testing.T, client *http.Client, url string, payload any) (*http.Response, jsonRPCResponse) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	var decoded jsonRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := resp.Body.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return resp, decoded
}

// toolResultText decodes the first text entry from one tool-call result payload.
func toolResultText(t *testing.T, result map[string]any) string {
	t.Helper()

	contentRaw, ok := result["content"].([]any)
	if !ok || len(contentRaw) == 0 {
		t.Fatalf("content missing in tool result: %#v", result)
	}
	first, ok := contentRaw[0].(map[string]any)
	if !ok {
		t.Fatalf("first content entry has unexpected type: %#v", contentRaw[0])
	}
	text, ok := first["text"].(string)
	if !ok {
		t.Fatalf("content text missing in tool result: %#v", first)
	}
	return text
}

// TestHandlerUsesStatelessTransport verifies MCP transport does not issue session ids.
func TestHandlerUsesStatelessTransport(t *testing.T) {
	handler, err := NewHandler(Config{}, &stubService{board: fixtureBoard()})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, decoded := postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if decoded.ID != 1 {
		t.Fatalf("id = %v, want 1", decoded.ID)
	}
	if got := resp.Header.Get("Mcp-Session-Id"); got != "" {
		t.Fatalf("Mcp-Session-Id header = %q, want empty (stateless transport)", got)
	}
}

// TestHandlerRegistersBoardTools verifies MCP tool discovery lists all four board tools.
func TestHandlerRegistersBoardTools(t *testing.T) {
	handler, err := NewHandler(Config{}, &stubService{board: fixtureBoard()})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	_, toolsResp := postJSONRPC(t, server.Client(), server.URL, map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/list",
	})

	toolsRaw, ok := toolsResp.Result["tools"].([]any)
	if !ok {
		t.Fatalf("tools list payload missing tools: %#v", toolsResp.Result)
	}
	toolNames := make([]string, 0, len(toolsRaw))
	for _, toolRaw := range toolsRaw {
		toolMap, ok := toolRaw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := toolMap["name"].(string)
		toolNames = append(toolNames, name)
	}
	for _, want := range []string{"hemma.board_state", "hemma.move_item", "hemma.create_task", "hemma.complete_task"} {
		if !slices.Contains(toolNames, want) {
			t.Fatalf("tool list missing %s: %#v", want, toolNames)
		}
	}
}

// TestHandlerBoardStateToolCall verifies board_state returns the assembled lanes.
func TestHandlerBoardStateToolCall(t *testing.T) {
	handler, err := NewHandler(Config{}, &stubService{board: fixtureBoard()})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	_, callResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "hemma.board_state", map[string]any{}))

	text := toolResultText(t, callResp.Result)
	if !strings.Contains(text, `"id":"today"`) {
		t.Fatalf("board_state result missing lane: %s", text)
	}
	if !strings.Contains(text, `"feed_name":"school"`) {
		t.Fatalf("board_state result missing feed row: %s", text)
	}
}

// TestHandlerMoveItemToolCall verifies move_item forwards arguments and returns the board.
func TestHandlerMoveItemToolCall(t *testing.T) {
	svc := &stubService{board: fixtureBoard()}
	handler, err := NewHandler(Config{}, svc)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	_, callResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "hemma.move_item", map[string]any{
		"item_id":      "t1",
		"to_column_id": "today",
		"to_index":     1,
	}))

	if svc.lastMoveItemID != "t1" || svc.lastMoveColumnID != "today" || svc.lastMoveIndex != 1 {
		t.Fatalf("move = (%q, %q, %d), want (t1, today, 1)", svc.lastMoveItemID, svc.lastMoveColumnID, svc.lastMoveIndex)
	}
	text := toolResultText(t, callResp.Result)
	if !strings.Contains(text, `"columns"`) {
		t.Fatalf("move_item result missing board payload: %s", text)
	}
}

// TestHandlerMoveItemMissingArgument verifies required-argument failures surface as tool errors.
func TestHandlerMoveItemMissingArgument(t *testing.T) {
	handler, err := NewHandler(Config{}, &stubService{board: fixtureBoard()})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	_, callResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "hemma.move_item", map[string]any{
		"item_id": "t1",
	}))

	if isError, _ := callResp.Result["isError"].(bool); !isError {
		t.Fatalf("result not marked as error: %#v", callResp.Result)
	}
}

// TestHandlerCreateAndCompleteTaskToolCalls verifies the task tools forward arguments.
func TestHandlerCreateAndCompleteTaskToolCalls(t *testing.T) {
	svc := &stubService{
		board: fixtureBoard(),
		task:  domain.Task{ID: "t9", ColumnID: "today", Title: "Water plants"},
	}
	handler, err := NewHandler(Config{}, svc)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())

	_, createResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "hemma.create_task", map[string]any{
		"column_id": "today",
		"title":     "Water plants",
		"due_at":    "2026-09-04T18:00:00Z",
	}))
	if svc.lastCreateTask.ColumnID != "today" || svc.lastCreateTask.Title != "Water plants" {
		t.Fatalf("create input = %+v, want today / Water plants", svc.lastCreateTask)
	}
	if svc.lastCreateTask.DueAt == nil {
		t.Fatalf("due_at not parsed")
	}
	if text := toolResultText(t, createResp.Result); !strings.Contains(text, "Water plants") {
		t.Fatalf("create_task result missing task: %s", text)
	}

	_, completeResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(3, "hemma.complete_task", map[string]any{
		"task_id": "t9",
	}))
	if svc.lastTaskID != "t9" {
		t.Fatalf("complete task id = %q, want t9", svc.lastTaskID)
	}
	if text := toolResultText(t, completeResp.Result); !strings.Contains(text, "t9") {
		t.Fatalf("complete_task result missing task: %s", text)
	}
}

// TestHandlerCreateTaskRejectsBadDueAt verifies timestamp parsing failures become tool errors.
func TestHandlerCreateTaskRejectsBadDueAt(t *testing.T) {
	handler, err := NewHandler(Config{}, &stubService{board: fixtureBoard()})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	_, callResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "hemma.create_task", map[string]any{
		"column_id": "today",
		"title":     "Water plants",
		"due_at":    "tomorrow",
	}))

	text := toolResultText(t, callResp.Result)
	if !strings.Contains(text, "invalid_request") {
		t.Fatalf("result = %s, want invalid_request prefix", text)
	}
}

// TestNewHandlerRequiresService verifies construction fails without a service.
func TestNewHandlerRequiresService(t *testing.T) {
	if _, err := NewHandler(Config{}, nil); err == nil {
		t.Fatalf("NewHandler() error = nil, want error")
	}
}

// TestNormalizeConfig verifies deterministic defaults and endpoint shaping.
func TestNormalizeConfig(t *testing.T) {
	cases := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "empty",
			in:   Config{},
			want: Config{ServerName: "hemma", ServerVersion: "dev", EndpointPath: "/mcp"},
		},
		{
			name: "missing slash",
			in:   Config{ServerName: "x", ServerVersion: "1", EndpointPath: "tools"},
			want: Config{ServerName: "x", ServerVersion: "1", EndpointPath: "/tools"},
		},
		{
			name: "trailing slash trimmed",
			in:   Config{ServerName: "x", ServerVersion: "1", EndpointPath: "/tools/"},
			want: Config{ServerName: "x", ServerVersion: "1", EndpointPath: "/tools"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeConfig(tc.in); got != tc.want {
				t.Fatalf("normalizeConfig() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

// TestHandlerServeHTTPUnavailable verifies nil handlers fail closed.
func TestHandlerServeHTTPUnavailable(t *testing.T) {
	var handler *Handler
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

// TestToolResultFromErrorMapping verifies sentinel errors map to stable prefixes.
func TestToolResultFromErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "unknown error"},
		{name: "not found", err: app.ErrNotFound, want: "not_found:"},
		{name: "not movable", err: domain.ErrItemNotMovable, want: "item_not_movable:"},
		{name: "locked lane", err: domain.ErrColumnLocked, want: "column_locked:"},
		{name: "invalid title", err: domain.ErrInvalidTitle, want: "invalid_request:"},
		{name: "unknown", err: errors.New("boom"), want: "internal_error:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := toolResultFromError(tc.err)
			if result == nil || len(result.Content) == 0 {
				t.Fatalf("result missing content")
			}
			text, ok := result.Content[0].(mcp.TextContent)
			if !ok {
				t.Fatalf("content[0] has unexpected type %T", result.Content[0])
			}
			if !strings.HasPrefix(text.Text, tc.want) {
				t.Fatalf("text = %q, want prefix %q", text.Text, tc.want)
			}
		})
	}
}
