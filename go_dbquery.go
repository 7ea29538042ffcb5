package go_dbquery

import (
	"github.com/PayRam/go-dbquery/internal/db"
	"github.com/PayRam/go-dbquery/internal/serviceimpl"
	"github.com/PayRam/go-dbquery/service"
)

// Options configures table names and the FAQ projection.
type Options = serviceimpl.Options

type QueryService struct {
	FAQ        service.FAQService
	Menu       service.MenuService
	Statistics service.StatisticsService
}

func NewQueryService(provider *db.Provider, opts Options) *QueryService {
	return &QueryService{
		FAQ:        serviceimpl.NewFAQService(provider, opts),
		Menu:       serviceimpl.NewMenuService(provider, opts),
		Statistics: serviceimpl.NewStatisticsService(provider, opts),
	}
}
