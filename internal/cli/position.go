package cli

import (
	"fmt"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/common"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/workspace"

	"github.com/spf13/cobra"
)

func newPositionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Manage open positions",
	}
	cmd.AddCommand(newPositionCreateCmd(), newPositionListCmd(), newPositionDeleteCmd())
	return cmd
}

func newPositionCreateCmd() *cobra.Command {
	var (
		cc common.CommandConfig
		in workspace.PositionInput
	)

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			return withApp(cmd, func(app *common.App) error {
				position, err := app.Workspace.CreatePosition(cmd.Context(), in)
				return writeResult(cmd, cc, position, err)
			})
		},
	}

	cmd.Flags().StringVar(&in.Description, "description", "", "Position description")
	cmd.Flags().StringSliceVar(&in.Requirements, "requirement", nil, "Requirement (repeatable)")
	cmd.Flags().IntVar(&in.Openings, "openings", 1, "Number of openings")
	addOutputFlags(cmd, &cc)
	return cmd
}

func newPositionListCmd() *cobra.Command {
	var cc common.CommandConfig

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *common.App) error {
				return writeResult(cmd, cc, app.Workspace.ListPositions(), nil)
			})
		},
	}

	addOutputFlags(cmd, &cc)
	return cmd
}

func newPositionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [position-id]",
		Short: "Delete a position with its candidates and presets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *common.App) error {
				if err := tolerateSyncWarning(cmd, app.Workspace.DeletePosition(cmd.Context(), args[0])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted position %s\n", args[0])
				return nil
			})
		},
	}
}
