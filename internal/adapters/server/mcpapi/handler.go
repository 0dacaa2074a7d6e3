// Package mcpapi provides a stateless MCP streamable-HTTP adapter for the board.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hylla/hemma/internal/app"
	"github.com/hylla/hemma/internal/domain"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Service captures the application operations the MCP adapter depends on.
type Service interface {
	BuildBoard(ctx context.Context) (domain.Board, error)
	MoveItem(ctx context.Context, itemID, toColumnID string, toIndex int) error
	CreateTask(ctx context.Context, in app.CreateTaskInput) (domain.Task, error)
	CompleteTask(ctx context.Context, taskID string) (domain.Task, error)
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing the board tools.
func NewHandler(cfg Config, svc Service) (*Handler, error) {
	if svc == nil {
		return nil, fmt.Errorf("board service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerBoardTools(mcpSrv, svc)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "hemma"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerBoardTools registers the board state and mutation tools.
func registerBoardTools(srv *mcpserver.MCPServer, svc Service) {
	srv.AddTool(
		mcp.NewTool(
			"hemma.board_state",
			mcp.WithDescription("Return the assembled household board: every lane with its ordered items."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			board, err := svc.BuildBoard(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(boardPayload(board))
			if err != nil {
				return nil, fmt.Errorf("encode board_state result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"hemma.move_item",
			mcp.WithDescription("Move one board item to an insertion index in a target lane."),
			mcp.WithString("item_id", mcp.Required(), mcp.Description("Board item identifier")),
			mcp.WithString("to_column_id", mcp.Required(), mcp.Description("Destination lane identifier")),
			mcp.WithNumber("to_index", mcp.Required(), mcp.Description("Insertion index in the destination lane")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			itemID, err := req.RequireString("item_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			toColumnID, err := req.RequireString("to_column_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			toIndex, err := req.RequireInt("to_index")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := svc.MoveItem(ctx, itemID, toColumnID, toIndex); err != nil {
				return toolResultFromError(err), nil
			}
			board, err := svc.BuildBoard(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(boardPayload(board))
			if err != nil {
				return nil, fmt.Errorf("encode move_item result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"hemma.create_task",
			mcp.WithDescription("Create one task appended to the bottom of a lane."),
			mcp.WithString("column_id", mcp.Required(), mcp.Description("Lane identifier")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithString("notes", mcp.Description("Free-form notes")),
			mcp.WithString("assigned_to", mcp.Description("Family member the task is assigned to")),
			mcp.WithString("due_at", mcp.Description("Optional RFC3339 due timestamp")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			columnID, err := req.RequireString("column_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			var dueAt *time.Time
			if raw := strings.TrimSpace(req.GetString("due_at", "")); raw != "" {
				parsed, err := time.Parse(time.RFC3339, raw)
				if err != nil {
					return mcp.NewToolResultError("invalid_request: due_at must be RFC3339"), nil
				}
				dueAt = &parsed
			}
			task, err := svc.CreateTask(ctx, app.CreateTaskInput{
				ColumnID:   columnID,
				Title:      title,
				Notes:      req.GetString("notes", ""),
				AssignedTo: req.GetString("assigned_to", ""),
				DueAt:      dueAt,
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(task)
			if err != nil {
				return nil, fmt.Errorf("encode create_task result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"hemma.complete_task",
			mcp.WithDescription("Mark one task as done."),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireString("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			task, err := svc.CompleteTask(ctx, taskID)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(task)
			if err != nil {
				return nil, fmt.Errorf("encode complete_task result: %w", err)
			}
			return result, nil
		},
	)
}

// boardColumnPayload is the tool-result form of one lane with its items.
type boardColumnPayload struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Position    int                `json:"position"`
	AcceptsDrop bool               `json:"accepts_drop"`
	Items       []boardItemPayload `json:"items"`
}

// boardItemPayload is the tool-result form of one board item.
type boardItemPayload struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Title    string     `json:"title"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	Done     bool       `json:"done"`
	FeedName string     `json:"feed_name,omitempty"`
	Editable bool       `json:"editable"`
}

// boardPayload converts one assembled board into its tool-result form.
func boardPayload(board domain.Board) map[string]any {
	columns := make([]boardColumnPayload, 0, len(board.Columns))
	for _, column := range board.Columns {
		items := make([]boardItemPayload, 0, len(column.Items))
		for _, item := range column.Items {
			items = append(items, boardItemPayload{
				ID:       item.ID,
				Kind:     string(item.Kind),
				Title:    item.Title,
				StartsAt: item.StartsAt,
				Done:     item.Done,
				FeedName: item.FeedName,
				Editable: item.Editable(),
			})
		}
		columns = append(columns, boardColumnPayload{
			ID:          column.ID,
			Name:        column.Name,
			Position:    column.Position,
			AcceptsDrop: column.AcceptsDrop,
			Items:       items,
		})
	}
	return map[string]any{"columns": columns}
}

// toolResultFromError maps application errors into MCP tool error results.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, app.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, domain.ErrItemNotMovable):
		return mcp.NewToolResultError("item_not_movable: " + err.Error())
	case errors.Is(err, domain.ErrColumnLocked):
		return mcp.NewToolResultError("column_locked: " + err.Error())
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrInvalidColumnID),
		errors.Is(err, domain.ErrInvalidTimeSpan),
		errors.Is(err, domain.ErrInvalidBirthday):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
