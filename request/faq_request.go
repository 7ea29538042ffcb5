package request

import (
	"golang.org/x/text/unicode/norm"

	"github.com/PayRam/go-dbquery/query"
)

// OpQueryFAQ is the operation name used in errors and logs.
const OpQueryFAQ = "query_faq"

type QueryFAQRequest struct {
	Question    *string `json:"question,omitempty"`     // Keyword, case-insensitive substring match
	TicketType  *string `json:"ticket_type,omitempty"`  // Exact ticket type
	IssueModule *string `json:"issue_module,omitempty"` // Exact issue category
	Limit       *int    `json:"limit,omitempty"`        // 1..100, defaults to 10
}

// Validate checks the request and returns the effective limit.
func (r QueryFAQRequest) Validate() (int, error) {
	return ResolveLimit(OpQueryFAQ, r.Limit)
}

// ApplyQueryFAQRequest returns the request's filters in statement order.
func ApplyQueryFAQRequest(req QueryFAQRequest) []query.Filter {
	return []query.Filter{
		query.Like("question", normalizeKeyword(req.Question)),
		query.EqString("ticket_type", req.TicketType),
		query.EqString("issue_module", req.IssueModule),
	}
}

// normalizeKeyword composes the keyword to NFC so decomposed input still
// matches text stored in composed form.
func normalizeKeyword(s *string) *string {
	if s == nil {
		return nil
	}
	n := norm.NFC.String(*s)
	return &n
}
