package cli

import (
	"github.com/spf13/cobra"

	"github.com/PayRam/go-dbquery/request"
)

// FAQOptions holds flags for the faq command.
type FAQOptions struct {
	*RootOptions
	Question    string
	TicketType  string
	IssueModule string
	Limit       int
}

// NewFAQCommand creates the faq command.
func NewFAQCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FAQOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "faq",
		Short: "Look up FAQ entries",
		Long: `Look up FAQ entries, newest first. Every filter is optional.

Example:
  dbquery faq --question battery --issue-module charging --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.QueryFAQRequest{}
			if cmd.Flags().Changed("question") {
				req.Question = &opts.Question
			}
			if cmd.Flags().Changed("ticket-type") {
				req.TicketType = &opts.TicketType
			}
			if cmd.Flags().Changed("issue-module") {
				req.IssueModule = &opts.IssueModule
			}
			if cmd.Flags().Changed("limit") {
				req.Limit = &opts.Limit
			}
			return runFAQ(opts, req, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Question, "question", "q", "", "question keyword (case-insensitive substring)")
	cmd.Flags().StringVar(&opts.TicketType, "ticket-type", "", "ticket type (exact)")
	cmd.Flags().StringVar(&opts.IssueModule, "issue-module", "", "issue category (exact)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", request.DefaultLimit, "maximum rows (1-100)")

	return cmd
}

func runFAQ(opts *FAQOptions, req request.QueryFAQRequest, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := loadApp(opts.RootOptions, cmd.ErrOrStderr(), true)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	defer a.close()

	formatter.VerboseLog("querying %s", a.cfg.FAQTable)
	rows, err := a.svc.FAQ.QueryFAQ(cmd.Context(), req)
	if err != nil {
		return formatter.Fail(err)
	}
	return formatter.Success(rows)
}

// MenuOptions holds flags for the menu command.
type MenuOptions struct {
	*RootOptions
	MenuName  string
	ParentID  int64
	MenuType  string
	IsDisable string
	Limit     int
}

// NewMenuCommand creates the menu command.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MenuOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Look up system menu entries",
		Long: `Look up system menu entries ordered by sort, then newest first.
Every filter is optional; --parent-id 0 selects top-level menus.

Example:
  dbquery menu --parent-id 1 --is-disable 0`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.QueryMenuRequest{}
			if cmd.Flags().Changed("name") {
				req.MenuName = &opts.MenuName
			}
			if cmd.Flags().Changed("parent-id") {
				req.ParentID = &opts.ParentID
			}
			if cmd.Flags().Changed("type") {
				req.MenuType = &opts.MenuType
			}
			if cmd.Flags().Changed("is-disable") {
				req.IsDisable = &opts.IsDisable
			}
			if cmd.Flags().Changed("limit") {
				req.Limit = &opts.Limit
			}
			return runMenu(opts, req, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MenuName, "name", "", "menu name keyword (case-insensitive substring)")
	cmd.Flags().Int64Var(&opts.ParentID, "parent-id", 0, "parent menu ID")
	cmd.Flags().StringVar(&opts.MenuType, "type", "", "menu type (exact)")
	cmd.Flags().StringVar(&opts.IsDisable, "is-disable", "", "0 for enabled, 1 for disabled")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", request.DefaultLimit, "maximum rows (1-100)")

	return cmd
}

func runMenu(opts *MenuOptions, req request.QueryMenuRequest, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := loadApp(opts.RootOptions, cmd.ErrOrStderr(), true)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	defer a.close()

	formatter.VerboseLog("querying %s", a.cfg.MenuTable)
	rows, err := a.svc.Menu.QueryMenu(cmd.Context(), req)
	if err != nil {
		return formatter.Fail(err)
	}
	return formatter.Success(rows)
}
