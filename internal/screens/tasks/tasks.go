// Package tasks is the task list screen.
package tasks

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyz/internal/screen"
	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/tasks"
	"github.com/abhisek/studyz/internal/ui/components"
	"github.com/abhisek/studyz/internal/ui/layout"
	"github.com/abhisek/studyz/internal/ui/theme"
)

const maxTaskLen = 200

// Screen lists tasks and edits them in place.
type Screen struct {
	engine *study.Engine
	list   []tasks.Task
	cursor int
	input  components.TextInput
	adding bool
	status string
	err    error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.EscCapturer     = (*Screen)(nil)
)

// New creates the task screen.
func New(engine *study.Engine) *Screen {
	s := &Screen{
		engine: engine,
		input:  components.NewTextInput("What do you need to study?", maxTaskLen),
	}
	s.input.Blur()
	return s
}

func (s *Screen) Init() tea.Cmd {
	s.reload()
	if len(s.list) == 0 {
		return s.startAdding()
	}
	return nil
}

func (s *Screen) Title() string { return "Tasks" }

func (s *Screen) CapturesEsc() bool { return s.adding }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.adding {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Add"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "a", Description: "Add"},
		{Key: "Space", Description: "Done"},
		{Key: "d", Description: "Delete"},
		{Key: "c", Description: "Clear done"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, isKey := msg.(tea.KeyPressMsg)
	if s.adding {
		if isKey {
			switch key.String() {
			case "enter":
				s.add()
				return s, nil
			case "esc":
				s.stopAdding()
				return s, nil
			}
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if !isKey {
		return s, nil
	}
	ctx := context.Background()
	switch key.String() {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, max(len(s.list)-1, 0))
	case "a", "n":
		return s, s.startAdding()
	case "space", " ", "enter":
		if t, ok := s.selected(); ok {
			_, s.err = s.engine.ToggleTask(ctx, t.ID)
			s.status = ""
			s.reload()
		}
	case "d", "delete", "backspace":
		if t, ok := s.selected(); ok {
			s.err = s.engine.DeleteTask(ctx, t.ID)
			s.status = "Deleted."
			s.reload()
		}
	case "c":
		n, err := s.engine.ClearTasks(ctx, true)
		s.err = err
		s.status = fmt.Sprintf("Cleared %d completed.", n)
		s.reload()
	}
	return s, nil
}

func (s *Screen) startAdding() tea.Cmd {
	s.adding = true
	s.status = ""
	return s.input.Focus()
}

func (s *Screen) stopAdding() {
	s.adding = false
	s.input.Reset()
	s.input.Blur()
}

func (s *Screen) add() {
	text := s.input.Value()
	if text == "" {
		s.stopAdding()
		return
	}
	if _, err := s.engine.AddTask(context.Background(), text); err != nil {
		s.err = err
		return
	}
	s.input.Reset()
	s.status = "Added."
	s.reload()
	s.cursor = len(s.list) - 1
}

func (s *Screen) selected() (tasks.Task, bool) {
	if s.cursor < 0 || s.cursor >= len(s.list) {
		return tasks.Task{}, false
	}
	return s.list[s.cursor], true
}

func (s *Screen) reload() {
	list, err := s.engine.Tasks(context.Background())
	if err != nil {
		s.err = err
		return
	}
	s.list = list
	s.cursor = min(s.cursor, max(len(s.list)-1, 0))
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var lines []string
	if len(s.list) == 0 {
		lines = append(lines, theme.Hint.Render("No tasks yet."))
	}
	for i, t := range s.list {
		box, text := "○", theme.Unselected.Render(t.Text)
		if t.Completed {
			box, text = lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), theme.Done.Render(t.Text)
		}
		prefix := "  "
		if i == s.cursor && !s.adding {
			prefix = theme.Selected.Render("▸ ")
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", prefix, box, text))
	}

	open, done := tasks.Counts(s.list)
	body := components.Panel(fmt.Sprintf("TASKS · %d open · %d done", open, done), strings.Join(lines, "\n"), cw)

	sections := []string{body}
	if s.adding {
		sections = append(sections, components.Panel("NEW TASK", s.input.View(), cw))
	}
	switch {
	case s.err != nil:
		sections = append(sections, theme.Incorrect.Render(s.err.Error()))
	case s.status != "":
		sections = append(sections, theme.Hint.Render(s.status))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
