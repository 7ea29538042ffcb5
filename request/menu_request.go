package request

import (
	"github.com/PayRam/go-dbquery/query"
	"github.com/PayRam/go-dbquery/queryerr"
)

// OpQueryMenu is the operation name used in errors and logs.
const OpQueryMenu = "query_menu"

// Menu status values stored in sys_menu.is_disable.
const (
	MenuEnabled  = "0"
	MenuDisabled = "1"
)

type QueryMenuRequest struct {
	MenuName  *string `json:"menu_name,omitempty"`  // Keyword, case-insensitive substring match
	ParentID  *int64  `json:"parent_id,omitempty"`  // Parent menu ID, 0 is a valid root parent
	MenuType  *string `json:"menu_type,omitempty"`  // Exact menu type
	IsDisable *string `json:"is_disable,omitempty"` // "0" enabled, "1" disabled
	Limit     *int    `json:"limit,omitempty"`      // 1..100, defaults to 10
}

// Validate checks the request and returns the effective limit.
func (r QueryMenuRequest) Validate() (int, error) {
	if r.IsDisable != nil && *r.IsDisable != MenuEnabled && *r.IsDisable != MenuDisabled {
		return 0, queryerr.Validationf(OpQueryMenu, "is_disable must be %q or %q, got %q", MenuEnabled, MenuDisabled, *r.IsDisable)
	}
	return ResolveLimit(OpQueryMenu, r.Limit)
}

// ApplyQueryMenuRequest returns the request's filters in statement order.
// parent_id and is_disable apply whenever present, the string filters only
// when non-empty.
func ApplyQueryMenuRequest(req QueryMenuRequest) []query.Filter {
	return []query.Filter{
		query.Like("menu_name", normalizeKeyword(req.MenuName)),
		query.Eq("parent_id", req.ParentID),
		query.EqString("menu_type", req.MenuType),
		query.Eq("is_disable", req.IsDisable),
	}
}
