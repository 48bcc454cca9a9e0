package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/dayring/pkg/engine"
	"tableflip.dev/dayring/pkg/timeline"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerTodayContextTool(srv, svc)
	registerClockReadTool(srv, svc)
	registerClockCreateTool(srv, svc)
	registerClockUpdateTool(srv, svc)
	registerClockDeleteTool(srv, svc)
}

func registerTodayContextTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"today_context",
		mcp.WithDescription("Return current local date/time context so date-based questions are grounded."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toJSONResult(svc.Today())
	})
}

func registerClockReadTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"clock_read",
		mcp.WithDescription("Read plan/retrospect slots for a date or date range."),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Description("Which timeline to read."),
			mcp.Enum("plan", "retrospect"),
		),
		mcp.WithString("from_date",
			mcp.Description("Start date as YYYY-MM-DD; omit for today."),
		),
		mcp.WithString("to_date",
			mcp.Description("Optional inclusive end date as YYYY-MM-DD."),
		),
		mcp.WithString("label",
			mcp.Description("Exact label to match (case-insensitive)."),
		),
		mcp.WithString("label_contains",
			mcp.Description("Fuzzy label substring to match (case-insensitive)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mode, err := request.RequireString("mode")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		where := &engine.Where{}
		if label := request.GetString("label", ""); label != "" {
			where.Label = &label
		}
		where.LabelContains = request.GetString("label_contains", "")

		resp, err := svc.Do(ctx, engine.Request{
			Action:   "read",
			Mode:     mode,
			FromDate: request.GetString("from_date", ""),
			ToDate:   request.GetString("to_date", ""),
			Where:    where,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(resp)
	})
}

func registerClockCreateTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"clock_create",
		mcp.WithDescription("Create one slot on the requested day and mode using HH:MM strings."),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Enum("plan", "retrospect"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start of the slot as HH:MM."),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("End of the slot as HH:MM."),
		),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Short activity label."),
		),
		mcp.WithString("notes",
			mcp.Description("Optional free-form notes."),
		),
		mcp.WithString("date",
			mcp.Description("Date as YYYY-MM-DD; omit for today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mode, err := request.RequireString("mode")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		startTime, err := request.RequireString("start_time")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		endTime, err := request.RequireString("end_time")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		label, err := request.RequireString("label")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		start, err := timeline.ParseClock(startTime)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("start_time: %v", err)), nil
		}
		end, err := timeline.ParseClock(endTime)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("end_time: %v", err)), nil
		}

		resp, err := svc.Do(ctx, engine.Request{
			Action: "create",
			Mode:   mode,
			Date:   request.GetString("date", ""),
			Slots: []engine.SlotPayload{{
				StartMinute: start,
				EndMinute:   end,
				Label:       label,
				Notes:       request.GetString("notes", ""),
			}},
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(resp)
	})
}

func registerClockUpdateTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"clock_update",
		mcp.WithDescription("Update matching slots (for example rename a planned task)."),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Enum("plan", "retrospect"),
		),
		mcp.WithString("date",
			mcp.Description("Date as YYYY-MM-DD; omit for today."),
		),
		mcp.WithString("where_label",
			mcp.Description("Exact label of the slots to update."),
		),
		mcp.WithString("where_label_contains",
			mcp.Description("Label substring of the slots to update."),
		),
		mcp.WithString("patch_label",
			mcp.Description("Replacement label."),
		),
		mcp.WithString("patch_notes",
			mcp.Description("Replacement notes."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum slots to update; defaults to 1."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mode, err := request.RequireString("mode")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		patch := &engine.Patch{}
		if label := request.GetString("patch_label", ""); label != "" {
			patch.Label = &label
		}
		if notes := request.GetString("patch_notes", ""); notes != "" {
			patch.Notes = &notes
		}

		resp, err := svc.Do(ctx, engine.Request{
			Action: "update",
			Mode:   mode,
			Date:   request.GetString("date", ""),
			Where:  whereFromRequest(request),
			Patch:  patch,
			Limit:  request.GetInt("limit", 1),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(resp)
	})
}

func registerClockDeleteTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"clock_delete",
		mcp.WithDescription("Delete matching slots."),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Enum("plan", "retrospect"),
		),
		mcp.WithString("date",
			mcp.Description("Date as YYYY-MM-DD; omit for today."),
		),
		mcp.WithString("where_label",
			mcp.Description("Exact label of the slots to delete."),
		),
		mcp.WithString("where_label_contains",
			mcp.Description("Label substring of the slots to delete."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum slots to delete; defaults to 1."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mode, err := request.RequireString("mode")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		resp, err := svc.Do(ctx, engine.Request{
			Action: "delete",
			Mode:   mode,
			Date:   request.GetString("date", ""),
			Where:  whereFromRequest(request),
			Limit:  request.GetInt("limit", 1),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(resp)
	})
}

func whereFromRequest(request mcp.CallToolRequest) *engine.Where {
	where := &engine.Where{}
	if label := request.GetString("where_label", ""); label != "" {
		where.Label = &label
	}
	where.LabelContains = request.GetString("where_label_contains", "")
	return where
}

func toJSONResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
