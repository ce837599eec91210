package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local HTTP API for browser front-ends",
	Long: `Serve the study engine over a local JSON API.

The timer runs server-side while the API is up. /api/ollama/* is proxied to
the configured Ollama server. Stop with Ctrl+C; progress is saved on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = settings.Server.Addr
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := openEngine(ctx, st, true)
		defer engine.Mixer().Close()

		srv := server.New(server.Options{
			Engine:    engine,
			Generator: newGenerator(ctx, st.EventRepo()),
			Addr:      addr,
			OllamaURL: settings.Server.OllamaURL,
			Logger:    logger,
		})
		fmt.Printf("studyz API listening on http://%s (Ctrl+C to stop)\n", addr)
		logger.Info("serving", zap.String("addr", addr))
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from settings, 127.0.0.1:4317)")
}
