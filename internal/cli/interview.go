package cli

import (
	"fmt"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/common"

	"github.com/spf13/cobra"
)

func newInterviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Prepare and evaluate interviews with AI",
	}
	cmd.AddCommand(newInterviewQuestionsCmd(), newInterviewScoreCmd())
	return cmd
}

func newInterviewQuestionsCmd() *cobra.Command {
	var (
		cc    common.CommandConfig
		count int
	)

	cmd := &cobra.Command{
		Use:   "questions [candidate-id]",
		Short: "Generate interview questions for a candidate",
		Long: `Generate interview questions tailored to the candidate's analysis and
the requirements of the position. Weaknesses found during scoring are
probed first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := getLoggerFromContext(ctx)

			return withApp(cmd, func(app *common.App) error {
				input, err := app.Workspace.InterviewInput(args[0], count)
				if err != nil {
					return err
				}
				services, err := app.Services()
				if err != nil {
					return fmt.Errorf("failed to create AI service: %w", err)
				}

				logger.Info("Generating interview questions",
					"candidate", input.CandidateName,
					"count", input.Count,
					"output_format", cc.OutputFormat)

				if err := common.RunAICommand(ctx, logger, newOutputHandler(cmd), cc, input,
					services.Interview.GenerateInterviewQuestions); err != nil {
					return fmt.Errorf("failed to generate interview questions: %w", err)
				}
				logger.Info("Interview questions generated successfully")
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Number of questions (default from the prompt)")
	addOutputFlags(cmd, &cc)
	return cmd
}

func newInterviewScoreCmd() *cobra.Command {
	var cc common.CommandConfig

	cmd := &cobra.Command{
		Use:   "score [position-id] [question] [answer]",
		Short: "Score an interview answer against a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := getLoggerFromContext(ctx)

			return withApp(cmd, func(app *common.App) error {
				input, err := app.Workspace.AnswerInput(args[0], args[1], args[2])
				if err != nil {
					return err
				}
				services, err := app.Services()
				if err != nil {
					return fmt.Errorf("failed to create AI service: %w", err)
				}

				logger.Info("Scoring interview answer",
					"position", input.PositionTitle,
					"answer_chars", len(input.Answer))

				if err := common.RunAICommand(ctx, logger, newOutputHandler(cmd), cc, input,
					services.Answer.ScoreAnswer); err != nil {
					return fmt.Errorf("failed to score answer: %w", err)
				}
				return nil
			})
		},
	}

	addOutputFlags(cmd, &cc)
	return cmd
}
