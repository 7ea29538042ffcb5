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

const faqOrderBy = "create_at DESC"

type faqService struct {
	Provider *db.Provider
	Builder  *query.Builder
	base     string
	logger   *slog.Logger
}

var _ service.FAQService = &faqService{}

func NewFAQService(provider *db.Provider, opts Options) *faqService {
	opts = opts.withDefaults()
	columns := "question, answer"
	if opts.FAQFullRows {
		columns = "*"
	}
	return &faqService{
		Provider: provider,
		Builder:  query.NewBuilder(provider.Dialect()),
		base:     fmt.Sprintf("SELECT %s FROM %s WHERE 1=1", columns, opts.FAQTable),
		logger:   opts.Logger,
	}
}

func (s *faqService) QueryFAQ(ctx context.Context, req request.QueryFAQRequest) ([]response.Row, error) {
	limit, err := req.Validate()
	if err != nil {
		return nil, err
	}

	plan := s.Builder.Build(s.base, request.ApplyQueryFAQRequest(req), faqOrderBy, limit)

	rows, err := s.Provider.Select(ctx, request.OpQueryFAQ, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to query FAQ: %w", err)
	}
	s.logger.DebugContext(ctx, "FAQ query finished", "rows", len(rows), "limit", limit)
	return rows, nil
}
