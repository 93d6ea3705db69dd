package cli

import (
	"fmt"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/common"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/licensing"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/utils"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/workspace"

	"github.com/spf13/cobra"
)

func newCandidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidate",
		Short: "Submit and review candidates",
	}
	cmd.AddCommand(
		newCandidateAddCmd(),
		newCandidateListCmd(),
		newCandidateShowCmd(),
		newCandidateStatusCmd(),
		newCandidateDeleteCmd(),
	)
	return cmd
}

func newCandidateAddCmd() *cobra.Command {
	var (
		cc          common.CommandConfig
		name, email string
	)

	cmd := &cobra.Command{
		Use:   "add [position-id] [profile-file]",
		Short: "Submit a candidate profile for AI scoring",
		Long: `Read a résumé (PDF, DOCX or plain text), optimize it to the configured
token budget and score it against the position. The candidate is stored
only when the analysis succeeds.

When the archive is enabled and the plan allows file uploads, the
original file is archived with the candidate.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfigFromContext(ctx)
			logger := getLoggerFromContext(ctx)
			positionID, filename := args[0], args[1]

			text, data, err := common.NewFileProcessor(logger).ReadDocument(filename, cfg.App.MaxFileSize)
			if err != nil {
				return err
			}

			return withApp(cmd, func(app *common.App) error {
				logger.Info("Submitting candidate",
					"position_id", positionID,
					"profile_chars", len(text),
					"output_format", cc.OutputFormat)

				candidate, err := app.Workspace.SubmitCandidate(ctx, positionID, workspace.CandidateInput{
					Name:        name,
					Email:       email,
					ProfileText: text,
				})
				if err := tolerateSyncWarning(cmd, err); err != nil {
					return fmt.Errorf("failed to submit candidate: %w", err)
				}

				if app.Archive.Enabled() && app.Gate.Require(licensing.FeatureFileUpload) == nil {
					key, err := app.Archive.Put(ctx, app.Archive.Key(positionID, candidate.ID, filename),
						utils.ContentTypeFor(filename), data)
					if err != nil {
						logger.LogError(err, "Failed to archive resume", "candidate_id", candidate.ID)
					} else if updated, err := app.Workspace.SetResumeKey(ctx, candidate.ID, key); tolerateSyncWarning(cmd, err) == nil {
						candidate = updated
					} else {
						logger.LogError(err, "Failed to link archived resume", "candidate_id", candidate.ID, "key", key)
					}
				}

				logger.Info("Candidate scored", "candidate_id", candidate.ID, "score", candidate.Score)
				return writeResult(cmd, cc, candidate, nil)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Candidate name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Candidate email")
	_ = cmd.MarkFlagRequired("name")
	addOutputFlags(cmd, &cc)
	return cmd
}

func newCandidateListCmd() *cobra.Command {
	var (
		cc     common.CommandConfig
		status string
	)

	cmd := &cobra.Command{
		Use:   "list [position-id]",
		Short: "List a position's candidates in creation order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStatus(status)
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *common.App) error {
				list, err := app.Workspace.ListCandidates(args[0], st)
				return writeResult(cmd, cc, list, err)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only candidates with this status")
	addOutputFlags(cmd, &cc)
	return cmd
}

func newCandidateShowCmd() *cobra.Command {
	var cc common.CommandConfig

	cmd := &cobra.Command{
		Use:   "show [candidate-id]",
		Short: "Show a candidate with its analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *common.App) error {
				candidate, err := app.Workspace.GetCandidate(args[0])
				return writeResult(cmd, cc, candidate, err)
			})
		},
	}

	addOutputFlags(cmd, &cc)
	return cmd
}

func newCandidateStatusCmd() *cobra.Command {
	var cc common.CommandConfig

	cmd := &cobra.Command{
		Use:       "status [candidate-id] [status]",
		Short:     "Set a candidate's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(types.StatusScored), string(types.StatusSelected), string(types.StatusRejected), string(types.StatusHired)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *common.App) error {
				candidate, err := app.Workspace.SetCandidateStatus(cmd.Context(), args[0], types.CandidateStatus(args[1]))
				return writeResult(cmd, cc, candidate, err)
			})
		},
	}

	addOutputFlags(cmd, &cc)
	return cmd
}

func newCandidateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [candidate-id]",
		Short: "Delete a candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *common.App) error {
				if err := tolerateSyncWarning(cmd, app.Workspace.DeleteCandidate(cmd.Context(), args[0])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted candidate %s\n", args[0])
				return nil
			})
		},
	}
}
