package dashboard

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyz/internal/config"
	"github.com/abhisek/studyz/internal/router"
	"github.com/abhisek/studyz/internal/screen"
	"github.com/abhisek/studyz/internal/store"
	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/timer"
)

func newScreen(t *testing.T) (*Screen, *study.Engine) {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	engine := study.New(study.Options{Settings: config.Default(), Store: st})
	s := New(Deps{Engine: engine})
	s.Init()
	return s, engine
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestTimerShortcuts(t *testing.T) {
	s, engine := newScreen(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	assert.True(t, engine.View().Running)

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	assert.False(t, engine.View().Running)

	s.Update(key('b'))
	v := engine.View()
	assert.Equal(t, timer.PhaseBreak, v.Phase)
	assert.True(t, v.Running)

	s.Update(key('r'))
	assert.False(t, engine.View().Running)
}

func TestMixerShortcuts(t *testing.T) {
	s, engine := newScreen(t)
	before := engine.View().Tracks[0].Volume

	s.Update(key('+'))
	assert.InDelta(t, before+0.05, engine.View().Tracks[0].Volume, 1e-9)

	// Selection wraps to the last track.
	s.Update(key('h'))
	last := len(engine.View().Tracks) - 1
	assert.Equal(t, last, s.track)

	s.Update(key('m'))
	assert.True(t, engine.View().MixerPlaying)

	s.Update(key('x'))
	assert.True(t, engine.View().Tracks[last].Muted, "x mutes the selected track")
	s.Update(key('x'))
	assert.False(t, engine.View().Tracks[last].Muted)
}

func TestMenuPushesScreens(t *testing.T) {
	s, _ := newScreen(t)
	tests := map[rune]string{
		't': "Tasks",
		'z': "Quiz",
		'f': "Flashcards",
		'g': "Stats",
		'a': "Tutor",
	}
	for r, title := range tests {
		_, cmd := s.Update(key(r))
		require.NotNil(t, cmd, "key %q", r)
		push, ok := cmd().(router.PushScreenMsg)
		require.True(t, ok, "key %q", r)
		assert.Equal(t, title, push.Screen.Title())
	}
}

func TestTaskSummaryRefreshesOnTick(t *testing.T) {
	s, engine := newScreen(t)
	assert.Zero(t, s.tasks.open)

	_, err := engine.AddTask(context.Background(), "revise notes")
	require.NoError(t, err)
	s.Update(screen.EngineTickMsg{})

	assert.Equal(t, 1, s.tasks.open)
	assert.Equal(t, []string{"revise notes"}, s.tasks.preview)
	assert.NotEmpty(t, s.View(100, 40))
}
