package request

import (
	"github.com/PayRam/go-dbquery/queryerr"
)

// Row limits accepted by the lookup operations.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 10
)

// ResolveLimit returns DefaultLimit when limit is nil and rejects values
// outside [MinLimit, MaxLimit] with a Validation error.
func ResolveLimit(op string, limit *int) (int, error) {
	if limit == nil {
		return DefaultLimit, nil
	}
	if *limit < MinLimit || *limit > MaxLimit {
		return 0, queryerr.Validationf(op, "limit must be between %d and %d, got %d", MinLimit, MaxLimit, *limit)
	}
	return *limit, nil
}
