// Package app hosts the terminal dashboard: the root Bubble Tea model, the
// engine clock and the settings watcher.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyz/internal/config"
	"github.com/abhisek/studyz/internal/quizgen"
	"github.com/abhisek/studyz/internal/router"
	"github.com/abhisek/studyz/internal/screen"
	"github.com/abhisek/studyz/internal/screens/dashboard"
	"github.com/abhisek/studyz/internal/screens/stats"
	"github.com/abhisek/studyz/internal/screens/welcome"
	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/timer"
	"github.com/abhisek/studyz/internal/tutor"
	"github.com/abhisek/studyz/internal/ui/layout"
)

const (
	// TickInterval is the engine clock period.
	TickInterval = time.Second
	// BannerDuration is how long an announcement stays on screen.
	BannerDuration = 4 * time.Second
	// maxBanners bounds the announcement queue.
	maxBanners = 8
)

// Options are the dependencies of the dashboard.
type Options struct {
	Engine *study.Engine
	// Generator may be nil; quizzes then come from the fallback bank.
	Generator quizgen.Generator
	Tutor     *tutor.Tutor
	Awards    stats.AwardSource
	// SettingsPath is watched for edits. Empty disables reloads.
	SettingsPath string
	Logger       *zap.Logger
	// Bell receives the terminal bell when a study phase ends without a
	// chime. Defaults to stderr.
	Bell io.Writer
}

type engineTickMsg time.Time

// BannerMsg queues an announcement under the header.
type BannerMsg struct {
	Text string
}

type banner struct {
	text  string
	until time.Time
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	engine  *study.Engine
	logger  *zap.Logger
	bell    io.Writer
	now     func() time.Time
	banners []banner
	width   int
	height  int
}

// newAppModel creates the model, starting on the welcome screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Bell == nil {
		opts.Bell = os.Stderr
	}
	deps := dashboard.Deps{
		Engine:    opts.Engine,
		Generator: opts.Generator,
		Tutor:     opts.Tutor,
		Awards:    opts.Awards,
		Logger:    opts.Logger,
	}
	intro := welcome.New(func() screen.Screen { return dashboard.New(deps) })
	return AppModel{
		router: router.New(intro),
		engine: opts.Engine,
		logger: opts.Logger,
		bell:   opts.Bell,
		now:    time.Now,
	}
}

func engineTick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return engineTickMsg(t)
	})
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), engineTick())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case engineTickMsg:
		now := time.Time(msg)
		m.engine.Tick(context.Background(), now)
		m.drainEvents(now)
		m.pruneBanners(now)
		cmd := m.router.Update(screen.EngineTickMsg{})
		return m, tea.Batch(cmd, engineTick())

	case BannerMsg:
		m.push(msg.Text, m.now())
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscCapturer); ok && c.CapturesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// drainEvents turns engine events into banners and rings the bell for
// silent study completions.
func (m *AppModel) drainEvents(now time.Time) {
	for _, ev := range m.engine.Events() {
		m.push(ev.Message(), now)
		if ev.Kind == study.EventPhaseCompleted && !ev.Chimed &&
			ev.Transition != nil && ev.Transition.From == timer.PhaseStudy {
			if _, err := io.WriteString(m.bell, "\a"); err != nil {
				m.logger.Debug("ring bell", zap.Error(err))
			}
		}
	}
}

func (m *AppModel) push(text string, now time.Time) {
	if text == "" {
		return
	}
	// Queued banners show one after another.
	start := now
	if n := len(m.banners); n > 0 && m.banners[n-1].until.After(now) {
		start = m.banners[n-1].until
	}
	m.banners = append(m.banners, banner{text: text, until: start.Add(BannerDuration)})
	if len(m.banners) > maxBanners {
		m.banners = m.banners[len(m.banners)-maxBanners:]
	}
}

func (m *AppModel) pruneBanners(now time.Time) {
	i := 0
	for i < len(m.banners) && !m.banners[i].until.After(now) {
		i++
	}
	m.banners = m.banners[i:]
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the frame for the current window size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	view := m.engine.View()
	header := layout.RenderHeader(title, view.Level, view.Streak, m.width)
	if len(m.banners) > 0 {
		header = lipgloss.JoinVertical(lipgloss.Left, header, layout.RenderBanner(m.banners[0].text, m.width))
	}

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the dashboard and blocks until it exits. The engine is saved
// on the way out.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger

	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))

	if opts.SettingsPath != "" {
		w := config.NewWatcher(opts.SettingsPath, func(s config.Settings) {
			opts.Engine.ApplySettings(s)
			p.Send(BannerMsg{Text: "Settings reloaded"})
		}, logger)
		if err := w.Start(ctx); err != nil {
			logger.Warn("settings watcher unavailable", zap.String("path", opts.SettingsPath), zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	_, err := p.Run()
	if saveErr := opts.Engine.Save(context.WithoutCancel(ctx)); saveErr != nil {
		logger.Error("save on exit", zap.Error(saveErr))
		if err == nil {
			err = fmt.Errorf("save progress: %w", saveErr)
		}
	}
	if err != nil {
		logger.Error("dashboard exited", zap.Error(err))
		return err
	}
	return nil
}
