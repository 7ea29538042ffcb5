package cli

import (
	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command and its faq and menu subcommands.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print table statistics",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "faq",
		Short:         "Total FAQ count and counts per ticket type and issue category",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd, func(a *app) (any, error) {
				return a.svc.Statistics.GetFAQStatistics(cmd.Context())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "menu",
		Short:         "Total menu count and counts per menu type and status",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd, func(a *app) (any, error) {
				return a.svc.Statistics.GetMenuStatistics(cmd.Context())
			})
		},
	})

	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command, compute func(a *app) (any, error)) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := loadApp(opts, cmd.ErrOrStderr(), true)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	defer a.close()

	stats, err := compute(a)
	if err != nil {
		return formatter.Fail(err)
	}
	return formatter.Success(stats)
}
