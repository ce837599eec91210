// Package server exposes the study engine over a local HTTP API for
// browser front-ends, and proxies the Ollama native API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studyz/internal/quizgen"
	"github.com/abhisek/studyz/internal/study"
)

const (
	// DefaultTickInterval is one timer second.
	DefaultTickInterval = time.Second
	shutdownTimeout     = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Engine *study.Engine
	// Generator may be nil; quizzes then come from the fallback bank.
	Generator quizgen.Generator

	Addr      string
	OllamaURL string

	// TickInterval drives Engine.Tick. Zero means DefaultTickInterval.
	TickInterval time.Duration
	Logger       *zap.Logger
}

// Server is the local HTTP API.
type Server struct {
	app       *fiber.App
	engine    *study.Engine
	gen       quizgen.Generator
	addr      string
	ollamaURL string
	interval  time.Duration
	logger    *zap.Logger
}

// New builds the fiber app and registers every route.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}

	s := &Server{
		engine:    opts.Engine,
		gen:       opts.Generator,
		addr:      opts.Addr,
		ollamaURL: strings.TrimRight(opts.OllamaURL, "/"),
		interval:  opts.TickInterval,
		logger:    opts.Logger,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "studyz",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	s.app.Use(requestLogger(s.logger))
	s.routes()
	return s
}

// App returns the fiber app, for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/state", s.getState)
	api.Post("/timer/:action", s.postTimer)

	api.Get("/tasks", s.listTasks)
	api.Post("/tasks", s.addTask)
	api.Post("/tasks/:id/toggle", s.toggleTask)
	api.Delete("/tasks/:id", s.deleteTask)

	api.Post("/quiz", s.postQuiz)
	api.Post("/quiz/result", s.postQuizResult)
	api.Post("/flashcards", s.postFlashcards)

	api.Get("/stats/week", s.getWeek)
	api.Get("/events", s.getEvents)

	api.Post("/mixer/toggle", s.toggleMixer)
	api.Put("/mixer/:track", s.putVolume)

	api.All("/ollama/*", s.proxyOllama)
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve drives the engine clock and serves HTTP on ln until ctx is
// cancelled, then shuts down and saves the engine state.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.tickLoop(gctx)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("http api listening", zap.String("addr", ln.Addr().String()))
		if err := s.app.Listener(ln); err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := s.app.ShutdownWithContext(sctx)
		// Covers a shutdown that raced ahead of Listener registering ln.
		_ = ln.Close()
		if err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if saveErr := s.engine.Save(context.Background()); saveErr != nil {
		err = errors.Join(err, saveErr)
	}
	return err
}

func (s *Server) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.engine.Tick(ctx, s.engine.Now())
		}
	}
}
