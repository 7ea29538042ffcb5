package service

import (
	"context"

	"github.com/PayRam/go-dbquery/request"
	"github.com/PayRam/go-dbquery/response"
)

// FAQService looks up FAQ records
type FAQService interface {
	QueryFAQ(ctx context.Context, req request.QueryFAQRequest) ([]response.Row, error)
}

// MenuService looks up system menu records
type MenuService interface {
	QueryMenu(ctx context.Context, req request.QueryMenuRequest) ([]response.Row, error)
}

// StatisticsService computes unfiltered aggregates over the FAQ and menu tables
type StatisticsService interface {
	GetFAQStatistics(ctx context.Context) (*response.FAQStatistics, error)
	GetMenuStatistics(ctx context.Context) (*response.MenuStatistics, error)
}
