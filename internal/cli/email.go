package cli

import (
	"fmt"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/common"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"

	"github.com/spf13/cobra"
)

func newEmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Draft candidate emails with AI",
	}
	cmd.AddCommand(newEmailDraftCmd())
	return cmd
}

func newEmailDraftCmd() *cobra.Command {
	var (
		cc          common.CommandConfig
		kind, notes string
	)

	cmd := &cobra.Command{
		Use:   "draft [candidate-id]",
		Short: "Draft an invitation, rejection or offer email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := getLoggerFromContext(ctx)

			return withApp(cmd, func(app *common.App) error {
				input, err := app.Workspace.EmailInput(args[0], types.EmailKind(kind), notes)
				if err != nil {
					return err
				}
				services, err := app.Services()
				if err != nil {
					return fmt.Errorf("failed to create AI service: %w", err)
				}

				logger.Info("Drafting email",
					"kind", input.Kind,
					"candidate", input.CandidateName,
					"output_format", cc.OutputFormat)

				if err := common.RunAICommand(ctx, logger, newOutputHandler(cmd), cc, input,
					services.Email.DraftEmail); err != nil {
					return fmt.Errorf("failed to draft email: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(types.EmailInvitation), "Email kind: invitation, rejection or offer")
	cmd.Flags().StringVar(&notes, "notes", "", "Extra points the email should cover")
	_ = cmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions(
		[]string{string(types.EmailInvitation), string(types.EmailRejection), string(types.EmailOffer)},
		cobra.ShellCompDirectiveNoFileComp))
	addOutputFlags(cmd, &cc)
	return cmd
}
