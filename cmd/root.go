package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyz/internal/config"
	"github.com/abhisek/studyz/internal/logging"
	"github.com/abhisek/studyz/internal/store"
)

var (
	// logger is built in PersistentPreRunE; it is a no-op until then.
	logger = zap.NewNop()
	// settings and settingsPath are loaded before every command.
	settings     = config.Default()
	settingsPath string
)

var rootCmd = &cobra.Command{
	Use:   "studyz",
	Short: "Pomodoro study dashboard",
	Long: `studyz — a terminal study dashboard with a pomodoro timer, tasks, LLM
quizzes and flashcards, an ambient sound mixer, and XP, levels and streaks.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// ExecuteContext runs the root command with ctx, which long-running
// commands watch for cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to settings file (overrides STUDYZ_CONFIG env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(prepCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mixerCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads .env, builds the file logger and reads the settings file.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	l, err := logging.New(logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logger = l.With(zap.String("command", cmd.Name()))

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("resolve settings path: %w", err)
		}
	}
	s, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settings, settingsPath = s, path
	logger.Debug("settings loaded", zap.String("path", path))
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then STUDYZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
