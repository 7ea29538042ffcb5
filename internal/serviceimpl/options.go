package serviceimpl

import (
	"log/slog"
)

// Default table names of the served database.
const (
	DefaultFAQTable  = "public.cheery_exeedcars_faq"
	DefaultMenuTable = "public.sys_menu"
)

// Options configures the services. Table names are written into statements
// verbatim and must be validated identifiers.
type Options struct {
	FAQTable  string
	MenuTable string
	// FAQFullRows makes query_faq return every column instead of
	// question and answer only.
	FAQFullRows bool
	Logger      *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.FAQTable == "" {
		o.FAQTable = DefaultFAQTable
	}
	if o.MenuTable == "" {
		o.MenuTable = DefaultMenuTable
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
