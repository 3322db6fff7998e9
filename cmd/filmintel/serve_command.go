package main

import (
	"strings"

	"github.com/spf13/cobra"

	"filmintel/internal/api"
	"filmintel/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		Long: `Run the HTTP API exposing POST /analyze and POST /analyze_synopsis.
The bind address comes from the api section of the configuration file
unless overridden with --bind.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			analyzer, closer, err := ctx.newAnalyzer(cfg, logger)
			if err != nil {
				return err
			}
			defer closer()

			address := strings.TrimSpace(bind)
			if address == "" {
				address = cfg.API.Bind
			}

			server := api.NewServer(analyzer,
				api.WithFrontendOrigin(cfg.API.FrontendOrigin),
				api.WithLogger(logging.NewComponentLogger(logger, "api")))

			logger.Info("starting http api", logging.String("bind", address))
			return server.Run(address)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (host:port)")
	return cmd
}
