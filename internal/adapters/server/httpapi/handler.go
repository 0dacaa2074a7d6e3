// Package httpapi provides the REST HTTP adapter for the board surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hylla/hemma/internal/app"
	"github.com/hylla/hemma/internal/domain"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// errInvalidRequestBody marks malformed JSON request payloads.
var errInvalidRequestBody = errors.New("invalid request body")

// Service captures the application operations the REST adapter depends on.
type Service interface {
	BuildBoard(ctx context.Context) (domain.Board, error)
	MoveItem(ctx context.Context, itemID, toColumnID string, toIndex int) error
	CreateTask(ctx context.Context, in app.CreateTaskInput) (domain.Task, error)
	CompleteTask(ctx context.Context, taskID string) (domain.Task, error)
	ReopenTask(ctx context.Context, taskID string) (domain.Task, error)
	DeleteTask(ctx context.Context, taskID string, mode app.DeleteMode) error
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string, mode app.DeleteMode) error
}

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	svc Service
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs one HTTP API adapter over the board service.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)
	switch {
	case path == "board":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleBoard(w, r)
	case path == "moves":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleMove(w, r)
	case path == "tasks":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleCreateTask(w, r)
	case path == "events":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleCreateEvent(w, r)
	default:
		if taskID, action, ok := resolveTaskAction(path); ok {
			if r.Method != http.MethodPost {
				writeMethodNotAllowed(w, http.MethodPost)
				return
			}
			h.handleTaskAction(w, r, taskID, action)
			return
		}
		if taskID, ok := resolveResourceID(path, "tasks/"); ok {
			if r.Method != http.MethodDelete {
				writeMethodNotAllowed(w, http.MethodDelete)
				return
			}
			h.handleDeleteTask(w, r, taskID)
			return
		}
		if eventID, ok := resolveResourceID(path, "events/"); ok {
			if r.Method != http.MethodDelete {
				writeMethodNotAllowed(w, http.MethodDelete)
				return
			}
			h.handleDeleteEvent(w, r, eventID)
			return
		}
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
		})
	}
}

// BoardPayload is the wire form of one assembled board.
type BoardPayload struct {
	Columns []BoardColumnPayload `json:"columns"`
}

// BoardColumnPayload is the wire form of one lane with its ordered items.
type BoardColumnPayload struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Position    int                `json:"position"`
	AcceptsDrop bool               `json:"accepts_drop"`
	Items       []BoardItemPayload `json:"items"`
}

// BoardItemPayload is the wire form of one board item.
type BoardItemPayload struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	Done        bool       `json:"done"`
	FeedName    string     `json:"feed_name,omitempty"`
	Editable    bool       `json:"editable"`
}

// boardPayload converts one assembled board into its wire form.
func boardPayload(board domain.Board) BoardPayload {
	payload := BoardPayload{Columns: make([]BoardColumnPayload, 0, len(board.Columns))}
	for _, column := range board.Columns {
		items := make([]BoardItemPayload, 0, len(column.Items))
		for _, item := range column.Items {
			items = append(items, BoardItemPayload{
				ID:          item.ID,
				Kind:        string(item.Kind),
				Title:       item.Title,
				Description: item.Description,
				Location:    item.Location,
				StartsAt:    item.StartsAt,
				Done:        item.Done,
				FeedName:    item.FeedName,
				Editable:    item.Editable(),
			})
		}
		payload.Columns = append(payload.Columns, BoardColumnPayload{
			ID:          column.ID,
			Name:        column.Name,
			Position:    column.Position,
			AcceptsDrop: column.AcceptsDrop,
			Items:       items,
		})
	}
	return payload
}

// handleBoard serves GET `/board`.
func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.BuildBoard(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boardPayload(board))
}

// MoveRequest is the wire form of one move submission.
type MoveRequest struct {
	ItemID     string `json:"item_id"`
	ToColumnID string `json:"to_column_id"`
	ToIndex    int    `json:"to_index"`
}

// handleMove serves POST `/moves` and responds with the reordered board.
func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	if strings.TrimSpace(req.ItemID) == "" || strings.TrimSpace(req.ToColumnID) == "" {
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: "item_id and to_column_id are required",
		})
		return
	}
	if err := h.svc.MoveItem(r.Context(), req.ItemID, req.ToColumnID, req.ToIndex); err != nil {
		writeErrorFrom(w, err)
		return
	}
	board, err := h.svc.BuildBoard(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boardPayload(board))
}

// CreateTaskRequest is the wire form of one task creation.
type CreateTaskRequest struct {
	ColumnID   string     `json:"column_id"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes,omitempty"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

// handleCreateTask serves POST `/tasks`.
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	task, err := h.svc.CreateTask(r.Context(), app.CreateTaskInput{
		ColumnID:   req.ColumnID,
		Title:      req.Title,
		Notes:      req.Notes,
		AssignedTo: req.AssignedTo,
		DueAt:      req.DueAt,
	})
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// handleTaskAction serves POST `/tasks/{id}/complete` and `/tasks/{id}/reopen`.
func (h *Handler) handleTaskAction(w http.ResponseWriter, r *http.Request, taskID, action string) {
	var (
		task domain.Task
		err  error
	)
	switch action {
	case "complete":
		task, err = h.svc.CompleteTask(r.Context(), taskID)
	case "reopen":
		task, err = h.svc.ReopenTask(r.Context(), taskID)
	default:
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
		})
		return
	}
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleDeleteTask serves DELETE `/tasks/{id}`.
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request, taskID string) {
	mode := app.DeleteMode(strings.TrimSpace(r.URL.Query().Get("mode")))
	if err := h.svc.DeleteTask(r.Context(), taskID, mode); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateEventRequest is the wire form of one event creation.
type CreateEventRequest struct {
	ColumnID string     `json:"column_id"`
	Title    string     `json:"title"`
	Notes    string     `json:"notes,omitempty"`
	Location string     `json:"location,omitempty"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

// handleCreateEvent serves POST `/events`.
func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	event, err := h.svc.CreateEvent(r.Context(), app.CreateEventInput{
		ColumnID: req.ColumnID,
		Title:    req.Title,
		Notes:    req.Notes,
		Location: req.Location,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// handleDeleteEvent serves DELETE `/events/{id}`.
func (h *Handler) handleDeleteEvent(w http.ResponseWriter, r *http.Request, eventID string) {
	mode := app.DeleteMode(strings.TrimSpace(r.URL.Query().Get("mode")))
	if err := h.svc.DeleteEvent(r.Context(), eventID, mode); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveTaskAction parses `tasks/{id}/complete` or `tasks/{id}/reopen`.
func resolveTaskAction(path string) (string, string, bool) {
	rest, ok := strings.CutPrefix(path, "tasks/")
	if !ok {
		return "", "", false
	}
	id, action, ok := strings.Cut(rest, "/")
	if !ok {
		return "", "", false
	}
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(action, "/") {
		return "", "", false
	}
	if action != "complete" && action != "reopen" {
		return "", "", false
	}
	return id, action, true
}

// resolveResourceID parses `{prefix}{id}` with no further path segments.
func resolveResourceID(path, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return "", false
	}
	id := strings.TrimSpace(rest)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeErrorFrom maps application errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, app.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrItemNotMovable):
		writeJSONError(w, http.StatusConflict, APIError{
			Code:    "item_not_movable",
			Message: err.Error(),
			Hint:    "Feed rows and birthday cards cannot be moved.",
		})
	case errors.Is(err, domain.ErrColumnLocked):
		writeJSONError(w, http.StatusConflict, APIError{
			Code:    "column_locked",
			Message: err.Error(),
		})
	case errors.Is(err, errInvalidRequestBody),
		errors.Is(err, app.ErrInvalidDeleteMode),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrInvalidColumnID),
		errors.Is(err, domain.ErrInvalidTimeSpan),
		errors.Is(err, domain.ErrInvalidBirthday):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(errInvalidRequestBody, err))
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", errInvalidRequestBody)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
