package cli

import (
	"strconv"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/common"

	"github.com/spf13/cobra"
)

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Show and reorder a position's ranking",
		Long: `Candidates are ranked by score unless a manual order is active. Moving a
candidate switches the position to manual order; reset returns to score order.

Indexes are zero-based positions in the view shown by 'rank show' with the
same --status filter.`,
	}
	cmd.AddCommand(newRankShowCmd(), newRankMoveCmd(), newRankResetCmd())
	return cmd
}

func newRankShowCmd() *cobra.Command {
	var (
		cc     common.CommandConfig
		status string
	)

	cmd := &cobra.Command{
		Use:   "show [position-id]",
		Short: "Show the ranked candidates of a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStatus(status)
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *common.App) error {
				view, err := app.Workspace.RankedView(args[0], st)
				return writeResult(cmd, cc, view, err)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only candidates with this status")
	addOutputFlags(cmd, &cc)
	return cmd
}

func newRankMoveCmd() *cobra.Command {
	var (
		cc     common.CommandConfig
		status string
	)

	cmd := &cobra.Command{
		Use:   "move [position-id] [from] [to]",
		Short: "Move a candidate within the ranked view",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStatus(status)
			if err != nil {
				return err
			}
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *common.App) error {
				view, err := app.Workspace.Reorder(cmd.Context(), args[0], st, from, to)
				return writeResult(cmd, cc, view, err)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Status filter of the view being reordered")
	addOutputFlags(cmd, &cc)
	return cmd
}

func newRankResetCmd() *cobra.Command {
	var cc common.CommandConfig

	cmd := &cobra.Command{
		Use:   "reset [position-id]",
		Short: "Return a position to score order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *common.App) error {
				view, err := app.Workspace.ResetOrder(cmd.Context(), args[0])
				return writeResult(cmd, cc, view, err)
			})
		},
	}

	addOutputFlags(cmd, &cc)
	return cmd
}
