package app

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyz/internal/config"
	"github.com/abhisek/studyz/internal/router"
	"github.com/abhisek/studyz/internal/screens/dashboard"
	"github.com/abhisek/studyz/internal/screens/tasks"
	"github.com/abhisek/studyz/internal/store"
	"github.com/abhisek/studyz/internal/study"
)

func newTestModel(t *testing.T) (AppModel, *bytes.Buffer) {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s := config.Default()
	s.Timer.Study = time.Minute
	s.Timer.Break = time.Minute
	engine := study.New(study.Options{Settings: s, Store: st})

	bell := &bytes.Buffer{}
	m := newAppModel(Options{Engine: engine, Bell: bell})
	return m, bell
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

// run feeds the messages a command produces back into the model, one level
// deep, which is enough for router navigation.
func run(t *testing.T, m AppModel, cmd tea.Cmd) AppModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(t, m, c)
		}
		return m
	}
	switch msg.(type) {
	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		m, _ = update(t, m, msg)
	}
	return m
}

func TestStartsOnWelcome(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "", m.router.Active().Title())

	m, cmd := update(t, m, tea.KeyPressMsg{Code: ' '})
	m = run(t, m, cmd)

	_, ok := m.router.Active().(*dashboard.Screen)
	assert.True(t, ok, "welcome hands over to the dashboard")
	assert.Equal(t, 1, m.router.Depth())
}

func TestStudyCompletionBannerAndBell(t *testing.T) {
	m, bell := newTestModel(t)
	m.engine.Start(context.Background())

	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	for i := range 60 {
		m, _ = update(t, m, engineTickMsg(now.Add(time.Duration(i)*time.Second)))
	}

	var texts []string
	for _, b := range m.banners {
		texts = append(texts, b.text)
	}
	assert.Contains(t, texts, "Study session complete. Time for a break!")
	assert.Equal(t, "\a", bell.String())
}

func TestBannersQueueAndExpire(t *testing.T) {
	m, _ := newTestModel(t)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)

	m.push("first", now)
	m.push("second", now)
	require.Len(t, m.banners, 2)
	assert.Equal(t, now.Add(BannerDuration), m.banners[0].until)
	assert.Equal(t, now.Add(2*BannerDuration), m.banners[1].until)

	m.pruneBanners(now.Add(BannerDuration))
	require.Len(t, m.banners, 1)
	assert.Equal(t, "second", m.banners[0].text)

	m.pruneBanners(now.Add(2 * BannerDuration))
	assert.Empty(t, m.banners)
}

func TestBannerQueueIsBounded(t *testing.T) {
	m, _ := newTestModel(t)
	now := time.Now()
	for range maxBanners + 5 {
		m.push("x", now)
	}
	assert.Len(t, m.banners, maxBanners)
}

func TestEscPopsUnlessCaptured(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, tea.KeyPressMsg{Code: ' '})
	m = run(t, m, cmd)

	// The task screen opens in adding mode when the list is empty, and
	// Esc leaves the text field instead of the screen.
	m, _ = update(t, m, router.PushScreenMsg{Screen: tasks.New(m.engine)})
	require.Equal(t, 2, m.router.Depth())

	m, _ = update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 2, m.router.Depth())

	m, cmd = update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	m = run(t, m, cmd)
	assert.Equal(t, 1, m.router.Depth())
}

func TestViewShowsHeaderAndBanner(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, cmd := update(t, m, tea.KeyPressMsg{Code: ' '})
	m = run(t, m, cmd)
	m, _ = update(t, m, BannerMsg{Text: "Settings reloaded"})

	out := m.render()
	assert.Contains(t, out, "studyz")
	assert.Contains(t, out, "Lv 1")
	assert.Contains(t, out, "Settings reloaded")
	assert.True(t, strings.Contains(out, "Start/Pause"), "dashboard key hints in footer")
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
