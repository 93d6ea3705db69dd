package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/common"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/workspace"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recruiter",
		Short: "Score and rank job candidates using AI",
		Long: `Recruiter manages open positions and their candidates. Candidate profiles
are optimized and scored against the position by an AI model, ranked by score
or by a manual order, and the manual orders can be saved as presets.

The serve command exposes the same operations as a REST API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newVersionCmd(),
		newOptimizeCmd(),
		newPositionCmd(),
		newCandidateCmd(),
		newRankCmd(),
		newPresetCmd(),
		newInterviewCmd(),
		newEmailCmd(),
	)
	return rootCmd
}

func Execute(ctx context.Context, cfg *config.Config, logger *recruiterErrors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	return newRootCmd().ExecuteContext(ctx)
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *recruiterErrors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*recruiterErrors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// addOutputFlags registers --output and --format and resolves the format
// against the configuration before the command runs
func addOutputFlags(cmd *cobra.Command, cc *common.CommandConfig) {
	cmd.Flags().StringVarP(&cc.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cc.OutputFormat, "format", "", "Output format: json, yaml, text, or markdown")

	// Add completion for format flag
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveOutputFormat(cc.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		cc.OutputFormat = format
		return err
	}
}

// withApp opens the application for the duration of fn
func withApp(cmd *cobra.Command, fn func(app *common.App) error) (err error) {
	ctx := cmd.Context()
	logger := getLoggerFromContext(ctx)

	app, err := common.NewApp(ctx, getConfigFromContext(ctx), nil, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()
	return fn(app)
}

// tolerateSyncWarning logs a failed write-through and drops it: the change
// itself was applied
func tolerateSyncWarning(cmd *cobra.Command, err error) error {
	if err == nil || !workspace.IsSyncWarning(err) {
		return err
	}
	getLoggerFromContext(cmd.Context()).Warn("Change applied but not saved", "error", err.Error())
	return nil
}

// writeResult prints v in the configured format unless err is a real failure
func writeResult(cmd *cobra.Command, cc common.CommandConfig, v any, err error) error {
	if err := tolerateSyncWarning(cmd, err); err != nil {
		return err
	}
	return newOutputHandler(cmd).HandleOutput(v, cc)
}

func newOutputHandler(cmd *cobra.Command) *common.OutputHandler {
	return common.NewOutputHandlerTo(cmd.OutOrStdout(), getLoggerFromContext(cmd.Context()))
}

// parseStatus validates an optional --status value
func parseStatus(raw string) (types.CandidateStatus, error) {
	if raw == "" {
		return "", nil
	}
	status, ok := types.ParseCandidateStatus(raw)
	if !ok {
		return "", fmt.Errorf("unknown candidate status: %s", raw)
	}
	return status, nil
}
