package cli

import (
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port, host string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start an HTTP server that exposes positions, candidates, ranking and
ordering presets as REST endpoints.

Endpoints other than /health and /stats require an API key when
server.apiKeys is configured. Send it as 'X-API-Key: <key>' or as a
bearer token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfigFromContext(cmd.Context())
			logger := getLoggerFromContext(cmd.Context())

			// flags override the configuration file
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			return server.Run(cmd.Context(), cfg, Version, logger)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from config)")
	cmd.Flags().StringVar(&host, "host", "", "Host to bind to (default from config)")
	return cmd
}
