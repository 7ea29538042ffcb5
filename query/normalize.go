package query

import (
	"github.com/google/uuid"
)

// Normalize replaces identifier-typed column values with their canonical
// string form, in place, and returns row. All other values are left alone.
// Normalizing an already normalized row is a no-op.
func Normalize(row map[string]any) map[string]any {
	for col, v := range row {
		row[col] = NormalizeValue(v)
	}
	return row
}

// NormalizeValue is the per-value rule applied by Normalize.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case uuid.UUID:
		return val.String()
	case *uuid.UUID:
		if val == nil {
			return nil
		}
		return val.String()
	case uuid.NullUUID:
		if !val.Valid {
			return nil
		}
		return val.UUID.String()
	case [16]byte:
		return uuid.UUID(val).String()
	default:
		return v
	}
}
