package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"orbnaments/internal/application/commands"
	"orbnaments/internal/domain"
	"orbnaments/internal/ports"
)

// RegisterTools adds the vault maintenance tools to the MCP server.
func RegisterTools(s *server.MCPServer, svc ports.Maintenance) {
	s.AddTool(listConflictsTool(), listConflictsHandler(svc))
	s.AddTool(removeConflictsTool(), removeConflictsHandler(svc))
	s.AddTool(moveLinkedTool(), moveLinkedHandler(svc))
}

// --- list_sync_conflicts ---

func listConflictsTool() mcp.Tool {
	return mcp.NewTool("list_sync_conflicts",
		mcp.WithDescription("List files whose name contains the sync conflict marker, without touching them."),
	)
}

func listConflictsHandler(svc ports.Maintenance) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		outcome, err := svc.RemoveSyncConflicts(ctx, true)
		if err != nil {
			return toolError(commands.RemoveSyncConflictsFailure(err))
		}
		if outcome.Count == 0 {
			return mcp.NewToolResultText(outcome.Message), nil
		}
		return formatOutcome(outcome)
	}
}

// --- remove_sync_conflicts ---

func removeConflictsTool() mcp.Tool {
	return mcp.NewTool("remove_sync_conflicts",
		mcp.WithDescription("Move every sync conflict file in the vault to the trash. Fails as a whole if any file cannot be trashed."),
		mcp.WithBoolean("dry_run",
			mcp.Description("Only report what would be removed"),
		),
	)
}

func removeConflictsHandler(svc ports.Maintenance) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		outcome, err := svc.RemoveSyncConflicts(ctx, req.GetBool("dry_run", false))
		if err != nil {
			return toolError(commands.RemoveSyncConflictsFailure(err))
		}
		return formatOutcome(outcome)
	}
}

// --- move_linked_files ---

func moveLinkedTool() mcp.Tool {
	return mcp.NewTool("move_linked_files",
		mcp.WithDescription("Move root-level files that link to a note into a folder, creating the folder if needed. Files in subfolders are left alone."),
		mcp.WithString("target_note",
			mcp.Description("Link name of the note, e.g. expenses. Omit to use the configured note."),
		),
		mcp.WithString("destination_folder",
			mcp.Description("Vault-relative folder, e.g. Finanzas. Omit to use the configured folder."),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Only report what would be moved"),
		),
	)
}

func moveLinkedHandler(svc ports.Maintenance) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := req.GetString("target_note", "")
		dest := req.GetString("destination_folder", "")

		outcome, err := svc.MoveLinkedFiles(ctx, target, dest, req.GetBool("dry_run", false))
		if err != nil {
			return toolError(commands.MoveLinkedFilesFailure(err))
		}
		return formatOutcome(outcome)
	}
}

// --- helpers ---

func toolError(msg string) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(msg), nil
}

// formatOutcome renders the notice followed by one affected path per line
func formatOutcome(o *domain.Outcome) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sb.WriteString(o.Message)
	for _, f := range o.Files {
		sb.WriteString("\n- ")
		sb.WriteString(f)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
