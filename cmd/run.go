package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/studyz/internal/app"
	"github.com/abhisek/studyz/internal/tutor"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	engine := openEngine(ctx, st, true)
	defer engine.Mixer().Close()

	eventRepo := st.EventRepo()
	return app.Run(ctx, app.Options{
		Engine:       engine,
		Generator:    newGenerator(ctx, eventRepo),
		Tutor:        tutor.New(nil),
		Awards:       eventRepo,
		SettingsPath: settingsPath,
		Logger:       logger,
	})
}
