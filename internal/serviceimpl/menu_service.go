package serviceimpl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PayRam/go-dbquery/internal/db"
	"github.com/PayRam/go-dbquery/query"
	"github.com/PayRam/go-dbquery/request"
	"github.com/PayRam/go-dbquery/response"
	"github.com/PayRam/go-dbquery/service"
)

const menuOrderBy = "sort ASC, create_time DESC"

type menuService struct {
	Provider *db.Provider
	Builder  *query.Builder
	base     string
	logger   *slog.Logger
}

var _ service.MenuService = &menuService{}

func NewMenuService(provider *db.Provider, opts Options) *menuService {
	opts = opts.withDefaults()
	return &menuService{
		Provider: provider,
		Builder:  query.NewBuilder(provider.Dialect()),
		base:     fmt.Sprintf("SELECT * FROM %s WHERE 1=1", opts.MenuTable),
		logger:   opts.Logger,
	}
}

func (s *menuService) QueryMenu(ctx context.Context, req request.QueryMenuRequest) ([]response.Row, error) {
	limit, err := req.Validate()
	if err != nil {
		return nil, err
	}

	plan := s.Builder.Build(s.base, request.ApplyQueryMenuRequest(req), menuOrderBy, limit)

	rows, err := s.Provider.Select(ctx, request.OpQueryMenu, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}
	s.logger.DebugContext(ctx, "menu query finished", "rows", len(rows), "limit", limit)
	return rows, nil
}
