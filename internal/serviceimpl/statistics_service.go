package serviceimpl

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/PayRam/go-dbquery/internal/db"
	"github.com/PayRam/go-dbquery/response"
	"github.com/PayRam/go-dbquery/service"
)

// Operation names used in errors and logs.
const (
	OpFAQStatistics  = "get_faq_statistics"
	OpMenuStatistics = "get_menu_statistics"
)

type statisticsService struct {
	Provider  *db.Provider
	faqTable  string
	menuTable string
}

var _ service.StatisticsService = &statisticsService{}

func NewStatisticsService(provider *db.Provider, opts Options) *statisticsService {
	opts = opts.withDefaults()
	return &statisticsService{Provider: provider, faqTable: opts.FAQTable, menuTable: opts.MenuTable}
}

func (s *statisticsService) GetFAQStatistics(ctx context.Context) (*response.FAQStatistics, error) {
	stats := &response.FAQStatistics{
		TicketTypeStats:  []response.TicketTypeCount{},
		IssueModuleStats: []response.IssueModuleCount{},
	}

	err := s.Provider.WithGorm(ctx, func(tx *gorm.DB) error {
		if err := countAll(tx, s.faqTable, &stats.TotalCount); err != nil {
			return fmt.Errorf("failed to count FAQ: %w", err)
		}
		if err := groupCount(tx, s.faqTable, "ticket_type", &stats.TicketTypeStats); err != nil {
			return fmt.Errorf("failed to group FAQ by ticket_type: %w", err)
		}
		if err := groupCount(tx, s.faqTable, "issue_module", &stats.IssueModuleStats); err != nil {
			return fmt.Errorf("failed to group FAQ by issue_module: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, db.Classify(OpFAQStatistics, err)
	}
	return stats, nil
}

func (s *statisticsService) GetMenuStatistics(ctx context.Context) (*response.MenuStatistics, error) {
	stats := &response.MenuStatistics{
		MenuTypeStats: []response.MenuTypeCount{},
		StatusStats:   []response.MenuStatusCount{},
	}

	err := s.Provider.WithGorm(ctx, func(tx *gorm.DB) error {
		if err := countAll(tx, s.menuTable, &stats.TotalCount); err != nil {
			return fmt.Errorf("failed to count menus: %w", err)
		}
		if err := groupCount(tx, s.menuTable, "menu_type", &stats.MenuTypeStats); err != nil {
			return fmt.Errorf("failed to group menus by menu_type: %w", err)
		}
		if err := groupCount(tx, s.menuTable, "is_disable", &stats.StatusStats); err != nil {
			return fmt.Errorf("failed to group menus by is_disable: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, db.Classify(OpMenuStatistics, err)
	}
	return stats, nil
}

// Each statement starts from a fresh session on the pinned connection so no
// clause leaks from one aggregate into the next.
func countAll(tx *gorm.DB, table string, total *int64) error {
	return tx.Session(&gorm.Session{NewDB: true}).Table(table).Count(total).Error
}

func groupCount(tx *gorm.DB, table, column string, dest any) error {
	return tx.Session(&gorm.Session{NewDB: true}).
		Table(table).
		Select(column + ", COUNT(*) AS count").
		Group(column).
		Order(column).
		Scan(dest).Error
}
