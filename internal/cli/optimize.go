package cli

import (
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/common"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/optimizer"

	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	var (
		cc        common.CommandConfig
		maxTokens int
	)

	cmd := &cobra.Command{
		Use:   "optimize [profile-file]",
		Short: "Compress a candidate profile to a token budget",
		Long: `Extract the text of a résumé (PDF, DOCX or plain text) and compress it
to fit the token budget the same way profiles are prepared before analysis.
The result reports the estimated token counts before and after.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfigFromContext(cmd.Context())
			logger := getLoggerFromContext(cmd.Context())

			text, _, err := common.NewFileProcessor(logger).ReadDocument(args[0], cfg.App.MaxFileSize)
			if err != nil {
				return err
			}

			budget := maxTokens
			if budget <= 0 {
				budget = cfg.App.MaxTokens
			}
			result := optimizer.Report(text, budget)

			logger.Info("Profile optimized",
				"file", args[0],
				"original_tokens", result.OriginalTokens,
				"optimized_tokens", result.OptimizedTokens)
			return writeResult(cmd, cc, result, nil)
		},
	}

	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Token budget (default from config)")
	addOutputFlags(cmd, &cc)
	return cmd
}
