package cli

import (
	"fmt"
	"strings"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/common"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"

	"github.com/spf13/cobra"
)

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Save and apply named candidate orderings",
	}
	cmd.AddCommand(
		newPresetSaveCmd(),
		newPresetListCmd(),
		newPresetUpdateCmd(),
		newPresetDeleteCmd(),
		newPresetApplyCmd(),
	)
	return cmd
}

// presetCommand builds a preset subcommand whose result is printed
func presetCommand(use, short string, nargs int, run func(cmd *cobra.Command, app *common.App, args []string) (any, error)) *cobra.Command {
	var cc common.CommandConfig

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *common.App) error {
				v, err := run(cmd, app, args)
				return writeResult(cmd, cc, v, err)
			})
		},
	}

	addOutputFlags(cmd, &cc)
	return cmd
}

func newPresetSaveCmd() *cobra.Command {
	return presetCommand("save [position-id] [name]", "Save the current order of a position as a preset", 2,
		func(cmd *cobra.Command, app *common.App, args []string) (any, error) {
			return app.Workspace.SavePreset(cmd.Context(), args[0], args[1])
		})
}

func newPresetListCmd() *cobra.Command {
	return presetCommand("list [position-id]", "List a position's presets", 1,
		func(cmd *cobra.Command, app *common.App, args []string) (any, error) {
			list, err := app.Workspace.ListPresets(args[0])
			if list == nil {
				list = []types.OrderingPreset{}
			}
			return list, err
		})
}

func newPresetUpdateCmd() *cobra.Command {
	return presetCommand("update [preset-id]", "Overwrite a preset with the current order", 1,
		func(cmd *cobra.Command, app *common.App, args []string) (any, error) {
			return app.Workspace.UpdatePreset(cmd.Context(), args[0])
		})
}

func newPresetApplyCmd() *cobra.Command {
	return presetCommand("apply [preset-id]", "Apply a preset to its position", 1,
		func(cmd *cobra.Command, app *common.App, args []string) (any, error) {
			return app.Workspace.ApplyPreset(cmd.Context(), args[0])
		})
}

func newPresetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [preset-id...]",
		Short: "Delete presets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *common.App) error {
				for _, id := range args {
					if err := tolerateSyncWarning(cmd, app.Workspace.DeletePreset(cmd.Context(), id)); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", strings.Join(args, ", "))
				return nil
			})
		},
	}
}
