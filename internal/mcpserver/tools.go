package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PayRam/go-dbquery/internal/serviceimpl"
	"github.com/PayRam/go-dbquery/request"
)

func limitOption() mcp.ToolOption {
	return mcp.WithNumber("limit",
		mcp.Description("Maximum number of rows to return"),
		mcp.Min(request.MinLimit),
		mcp.Max(request.MaxLimit),
		mcp.DefaultNumber(request.DefaultLimit),
	)
}

func queryFAQTool() mcp.Tool {
	return mcp.NewTool(request.OpQueryFAQ,
		mcp.WithDescription("Query the Chery Exeed customer FAQ table. "+
			"Filters are optional and combined with AND; newest entries first."),
		mcp.WithString("question", mcp.Description("Question keyword, case-insensitive substring match")),
		mcp.WithString("ticket_type", mcp.Description("Ticket type, exact match")),
		mcp.WithString("issue_module", mcp.Description("Issue category, exact match")),
		limitOption(),
	)
}

func queryMenuTool() mcp.Tool {
	return mcp.NewTool(request.OpQueryMenu,
		mcp.WithDescription("Query the system menu table. "+
			"Filters are optional and combined with AND; ordered by sort, then newest first."),
		mcp.WithString("menu_name", mcp.Description("Menu name keyword, case-insensitive substring match")),
		mcp.WithNumber("parent_id", mcp.Description("Parent menu ID, 0 for top-level menus")),
		mcp.WithString("menu_type", mcp.Description("Menu type, exact match")),
		mcp.WithString("is_disable", mcp.Description("0 for enabled menus, 1 for disabled menus"),
			mcp.Enum(request.MenuEnabled, request.MenuDisabled)),
		limitOption(),
	)
}

func faqStatisticsTool() mcp.Tool {
	return mcp.NewTool(serviceimpl.OpFAQStatistics,
		mcp.WithDescription("FAQ table statistics: total count, count per ticket type and count per issue category."),
	)
}

func menuStatisticsTool() mcp.Tool {
	return mcp.NewTool(serviceimpl.OpMenuStatistics,
		mcp.WithDescription("System menu statistics: total count, count per menu type and count of enabled and disabled menus."),
	)
}

func (s *Server) queryFAQ(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	var in request.QueryFAQRequest
	if err := decodeArguments(request.OpQueryFAQ, req, &in); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "querying FAQ data")
	return s.svc.FAQ.QueryFAQ(ctx, in)
}

func (s *Server) queryMenu(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	var in request.QueryMenuRequest
	if err := decodeArguments(request.OpQueryMenu, req, &in); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "querying menu data")
	return s.svc.Menu.QueryMenu(ctx, in)
}

func (s *Server) faqStatistics(ctx context.Context, _ mcp.CallToolRequest) (any, error) {
	s.logger.InfoContext(ctx, "computing FAQ statistics")
	return s.svc.Statistics.GetFAQStatistics(ctx)
}

func (s *Server) menuStatistics(ctx context.Context, _ mcp.CallToolRequest) (any, error) {
	s.logger.InfoContext(ctx, "computing menu statistics")
	return s.svc.Statistics.GetMenuStatistics(ctx)
}
