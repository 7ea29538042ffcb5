package response

// Row is one fetched record keyed by column name, after normalization.
type Row = map[string]any

type TicketTypeCount struct {
	TicketType *string `json:"ticket_type" yaml:"ticket_type"`
	Count      int64   `json:"count" yaml:"count"`
}

type IssueModuleCount struct {
	IssueModule *string `json:"issue_module" yaml:"issue_module"`
	Count       int64   `json:"count" yaml:"count"`
}

type FAQStatistics struct {
	TotalCount       int64              `json:"total_count" yaml:"total_count"`
	TicketTypeStats  []TicketTypeCount  `json:"ticket_type_stats" yaml:"ticket_type_stats"`
	IssueModuleStats []IssueModuleCount `json:"issue_module_stats" yaml:"issue_module_stats"`
}

type MenuTypeCount struct {
	MenuType *string `json:"menu_type" yaml:"menu_type"`
	Count    int64   `json:"count" yaml:"count"`
}

type MenuStatusCount struct {
	IsDisable *string `json:"is_disable" yaml:"is_disable"`
	Count     int64   `json:"count" yaml:"count"`
}

type MenuStatistics struct {
	TotalCount    int64             `json:"total_count" yaml:"total_count"`
	MenuTypeStats []MenuTypeCount   `json:"menu_type_stats" yaml:"menu_type_stats"`
	StatusStats   []MenuStatusCount `json:"status_stats" yaml:"status_stats"`
}
