// Package mcpapi exposes the task board as MCP tools.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hylla/todoboard/internal/adapters/server/common"
	"github.com/hylla/todoboard/internal/app"
	"github.com/hylla/todoboard/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewServer builds the MCP server with every board tool registered.
// attachments may be nil, in which case file tools are not registered.
func NewServer(cfg Config, board common.BoardService, attachments common.AttachmentService) (*mcpserver.MCPServer, error) {
	if board == nil {
		return nil, fmt.Errorf("board service is required")
	}
	cfg = normalizeConfig(cfg)

	srv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerSnapshotTool(srv, board)
	registerTaskTools(srv, board, attachments)
	registerCategoryTools(srv, board)
	if attachments != nil {
		registerCheckAttachmentTool(srv, attachments)
	}
	return srv, nil
}

// NewHandler builds one stateless MCP streamable HTTP adapter.
func NewHandler(cfg Config, board common.BoardService, attachments common.AttachmentService) (*Handler, error) {
	cfg = normalizeConfig(cfg)
	srv, err := NewServer(cfg, board, attachments)
	if err != nil {
		return nil, err
	}
	streamable := mcpserver.NewStreamableHTTPServer(
		srv,
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
		cfg.ServerName = "todoboard"
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

// registerSnapshotTool registers the `todoboard.snapshot` tool.
func registerSnapshotTool(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"todoboard.snapshot",
			mcp.WithDescription("Return every category with its ordered tasks and the active category."),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			result, err := mcp.NewToolResultJSON(common.SnapshotBoard(board.Snapshot()))
			if err != nil {
				return nil, fmt.Errorf("encode snapshot result: %w", err)
			}
			return result, nil
		},
	)
}

// registerTaskTools registers add, toggle, and remove task tools.
func registerTaskTools(srv *mcpserver.MCPServer, board common.BoardService, attachments common.AttachmentService) {
	srv.AddTool(
		mcp.NewTool(
			"todoboard.add_task",
			mcp.WithDescription("Append a task to a category. Adding to completed or an unknown category is a no-op."),
			mcp.WithString("text", mcp.Required(), mcp.Description("Task text")),
			mcp.WithString("category_id", mcp.Description("Category id (defaults to the active category)")),
			mcp.WithString("priority", mcp.Description("Task priority"), mcp.Enum("low", "medium", "high")),
			mcp.WithString("due", mcp.Description("Due date as YYYY-MM-DD or RFC3339")),
			mcp.WithString("note", mcp.Description("Optional markdown note")),
			mcp.WithString("attachment_path", mcp.Description("Optional file to attach (max 5 MiB)")),
		),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			text, err := req.RequireString("text")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			var priority domain.Priority
			if raw := strings.TrimSpace(req.GetString("priority", "")); raw != "" {
				parsed, err := domain.ParsePriority(raw)
				if err != nil {
					return toolResultFromError(fmt.Errorf("%w: %w", common.ErrInvalidRequest, err)), nil
				}
				priority = parsed
			}
			due, err := parseDue(req.GetString("due", ""))
			if err != nil {
				return toolResultFromError(err), nil
			}
			in := app.AddTaskInput{
				Text:     text,
				Priority: priority,
				DueDate:  due,
				Note:     req.GetString("note", ""),
			}
			if path := strings.TrimSpace(req.GetString("attachment_path", "")); path != "" {
				if attachments == nil {
					return toolResultFromError(fmt.Errorf("%w: attachments unavailable", common.ErrInvalidRequest)), nil
				}
				attachment, _, err := attachments.Select(path)
				if err != nil {
					return toolResultFromError(err), nil
				}
				in.Attachment = &attachment
			}
			categoryID := strings.TrimSpace(req.GetString("category_id", ""))
			if categoryID == "" {
				categoryID = board.Snapshot().ActiveCategoryID()
			}
			return mutationResult("add_task", board.AddTask(categoryID, in))
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"todoboard.toggle_completion",
			mcp.WithDescription("Move a task into completed, or back to its original category when in_completed is true."),
			mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task id")),
			mcp.WithBoolean("in_completed", mcp.Description("Whether the task is currently in completed")),
		),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireInt("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mutationResult("toggle_completion", board.ToggleCompletion(int64(taskID), req.GetBool("in_completed", false)))
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"todoboard.remove_task",
			mcp.WithDescription("Delete a task from a category. Unknown ids are a no-op."),
			mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task id")),
			mcp.WithString("category_id", mcp.Description("Category id (defaults to the active category)")),
		),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireInt("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			categoryID := strings.TrimSpace(req.GetString("category_id", ""))
			if categoryID == "" {
				categoryID = board.Snapshot().ActiveCategoryID()
			}
			return mutationResult("remove_task", board.RemoveTask(categoryID, int64(taskID)))
		},
	)
}

// registerCategoryTools registers add and select category tools.
func registerCategoryTools(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"todoboard.add_category",
			mcp.WithDescription("Append a category. Empty or duplicate names are a no-op."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Category display name")),
		),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name, err := req.RequireString("name")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mutationResult("add_category", board.AddCategory(name))
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"todoboard.set_active_category",
			mcp.WithDescription("Select the active category. Unknown ids are a no-op."),
			mcp.WithString("category_id", mcp.Required(), mcp.Description("Category id")),
		),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			categoryID, err := req.RequireString("category_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mutationResult("set_active_category", board.SetActiveCategory(categoryID))
		},
	)
}

// registerCheckAttachmentTool registers the `todoboard.check_attachment` tool.
func registerCheckAttachmentTool(srv *mcpserver.MCPServer, attachments common.AttachmentService) {
	srv.AddTool(
		mcp.NewTool(
			"todoboard.check_attachment",
			mcp.WithDescription("Report size, media type, and whether a file fits the 5 MiB attachment limit."),
			mcp.WithString("path", mcp.Required(), mcp.Description("File path")),
		),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			path, err := req.RequireString("path")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			info, err := attachments.Check(path)
			if err != nil && !errors.Is(err, domain.ErrAttachmentTooLarge) {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(common.CheckFromInfo(info))
			if err != nil {
				return nil, fmt.Errorf("encode check_attachment result: %w", err)
			}
			return result, nil
		},
	)
}

func mutationResult(tool string, out app.Outcome) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(common.ResultFromOutcome(out))
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", tool, err)
	}
	return result, nil
}

// parseDue parses optional due input.
func parseDue(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("%w: due must be YYYY-MM-DD or RFC3339", common.ErrInvalidRequest)
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, domain.ErrAttachmentTooLarge):
		return mcp.NewToolResultError("attachment_too_large: " + err.Error())
	case errors.Is(err, common.ErrInvalidRequest), errors.Is(err, app.ErrNotAFile):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, os.ErrNotExist):
		return mcp.NewToolResultError("not_found: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
