package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/abhisek/studyz/internal/ambient"
	"github.com/abhisek/studyz/internal/llm"
	"github.com/abhisek/studyz/internal/quizgen"
	"github.com/abhisek/studyz/internal/store"
	"github.com/abhisek/studyz/internal/study"
)

// openStore opens the database the --db flag or environment points at.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("database opened", zap.String("path", dbPath))
	return st, nil
}

// openEngine builds the study engine over st and resumes the saved state.
// withAudio attaches the ebiten backend when a sound directory is set.
// A failed load is reported and the engine starts fresh.
func openEngine(ctx context.Context, st *store.Store, withAudio bool) *study.Engine {
	var player ambient.Player
	if withAudio && settings.Ambient.SoundDir != "" {
		player = ambient.NewEbitenPlayer(settings.Ambient.SoundDir, settings.Ambient.Chime)
	}
	mixer := ambient.NewMixer(settings.Ambient.Tracks, player, logger)

	engine := study.New(study.Options{
		Settings: settings,
		Store:    st,
		Mixer:    mixer,
		Logger:   logger,
	})
	if err := engine.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not restore saved progress:", err)
	}
	return engine
}

// closeEngine saves the engine state and releases the audio backend.
func closeEngine(ctx context.Context, engine *study.Engine) error {
	err := engine.Save(context.WithoutCancel(ctx))
	if cerr := engine.Mixer().Close(); cerr != nil {
		logger.Warn("close mixer", zap.Error(cerr))
	}
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// newGenerator builds the LLM-backed quiz generator. It returns nil when
// no provider is configured; callers then serve the built-in bank.
func newGenerator(ctx context.Context, events store.EventRepo) quizgen.Generator {
	provider, cfg, err := llm.NewProviderFromEnv(ctx, events, logger)
	if err != nil {
		logger.Warn("llm provider unavailable", zap.Error(err))
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Quizzes and flashcards will use the built-in bank.")
		return nil
	}
	logger.Info("llm provider ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", provider.ModelID()))

	qcfg := quizgen.DefaultConfig()
	qcfg.QuestionCount = settings.Quiz.Questions
	qcfg.CardCount = settings.Quiz.Cards
	return quizgen.New(provider, qcfg, logger)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
