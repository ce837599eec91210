// Package ambient mixes looping background sounds for study sessions.
package ambient

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

// VolumeStep is the slider granularity.
const VolumeStep = 0.05

// ErrUnknownTrack is returned for track names the mixer doesn't have.
var ErrUnknownTrack = errors.New("unknown track")

// Track is one mixer channel. A muted track keeps its volume but is not
// heard.
type Track struct {
	Name   string  `yaml:"name" json:"name"`
	File   string  `yaml:"file" json:"file"`
	Volume float64 `yaml:"volume" json:"volume"`
	Muted  bool    `yaml:"muted,omitempty" json:"muted,omitempty"`
}

// Audible reports whether the track makes sound while the mixer plays.
func (t Track) Audible() bool { return !t.Muted && t.Volume > 0 }

// DefaultTracks returns the stock channels: rain on at half volume, the
// rest muted.
func DefaultTracks() []Track {
	return []Track{
		{Name: "rain", File: "rain.mp3", Volume: 0.5},
		{Name: "cafe", File: "cafe.mp3", Volume: 0},
		{Name: "noise", File: "noise.mp3", Volume: 0},
	}
}

// Player is an audio backend. Implementations must tolerate repeated
// Play and Pause calls for the same track.
type Player interface {
	Play(t Track) error
	Pause(name string) error
	SetVolume(name string, v float64) error
	Close() error
}

// Chimer is implemented by players that can play a one-shot notification.
type Chimer interface {
	Chime() error
}

// Mixer holds per-track volumes and the master play switch. It is safe
// for concurrent use.
type Mixer struct {
	mu      sync.Mutex
	playing bool
	tracks  []Track
	player  Player
	logger  *zap.Logger
}

// NewMixer creates a stopped mixer. player may be nil for silent mode.
func NewMixer(tracks []Track, player Player, logger *zap.Logger) *Mixer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(tracks) == 0 {
		tracks = DefaultTracks()
	}
	ts := make([]Track, len(tracks))
	for i, t := range tracks {
		t.Volume = Snap(t.Volume)
		ts[i] = t
	}
	return &Mixer{tracks: ts, player: player, logger: logger}
}

// Snap clamps v to [0, 1] and rounds it to the nearest VolumeStep.
func Snap(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return math.Round(v/VolumeStep) * VolumeStep
}

// Toggle flips the master switch and returns the new state.
func (m *Mixer) Toggle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = !m.playing
	m.applyAll()
	return m.playing
}

// SetPlaying sets the master switch.
func (m *Mixer) SetPlaying(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing == v {
		return
	}
	m.playing = v
	m.applyAll()
}

// Playing reports the master switch.
func (m *Mixer) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// SetVolume sets a track's volume, snapped to the slider grid.
func (m *Mixer) SetVolume(name string, v float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(name)
	if i < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTrack, name)
	}
	m.tracks[i].Volume = Snap(v)
	m.apply(m.tracks[i])
	return m.tracks[i].Volume, nil
}

// SetMuted mutes or unmutes a track without touching its volume.
func (m *Mixer) SetMuted(name string, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownTrack, name)
	}
	m.tracks[i].Muted = muted
	m.apply(m.tracks[i])
	return nil
}

// Nudge moves a track's volume by delta.
func (m *Mixer) Nudge(name string, delta float64) (float64, error) {
	m.mu.Lock()
	i := m.index(name)
	if i < 0 {
		m.mu.Unlock()
		return 0, fmt.Errorf("%w: %q", ErrUnknownTrack, name)
	}
	v := m.tracks[i].Volume + delta
	m.mu.Unlock()
	return m.SetVolume(name, v)
}

// Effective returns the volume a track is actually heard at.
func (m *Mixer) Effective(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(name)
	if i < 0 || !m.playing || m.tracks[i].Muted {
		return 0
	}
	return m.tracks[i].Volume
}

// Tracks returns a copy of the channels.
func (m *Mixer) Tracks() []Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Track, len(m.tracks))
	copy(out, m.tracks)
	return out
}

// Restore replaces the mixer state, keeping files for known tracks when
// the saved state lacks them. Unknown saved tracks are added.
func (m *Mixer) Restore(playing bool, tracks []Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tracks {
		if i := m.index(t.Name); i >= 0 {
			m.tracks[i].Volume = Snap(t.Volume)
			m.tracks[i].Muted = t.Muted
			if t.File != "" {
				m.tracks[i].File = t.File
			}
			continue
		}
		t.Volume = Snap(t.Volume)
		m.tracks = append(m.tracks, t)
	}
	m.playing = playing
	m.applyAll()
}

// Chime plays the notification sound. Reports false when the backend
// can't, so callers can fall back to the terminal bell.
func (m *Mixer) Chime() bool {
	c, ok := m.player.(Chimer)
	if !ok {
		return false
	}
	if err := c.Chime(); err != nil {
		m.logger.Debug("chime", zap.Error(err))
		return false
	}
	return true
}

// Close releases the audio backend.
func (m *Mixer) Close() error {
	if m.player == nil {
		return nil
	}
	return m.player.Close()
}

func (m *Mixer) index(name string) int {
	for i, t := range m.tracks {
		if t.Name == name {
			return i
		}
	}
	return -1
}

func (m *Mixer) applyAll() {
	for _, t := range m.tracks {
		m.apply(t)
	}
}

// apply pushes one track's effective state to the backend. Backend
// failures are logged; the mixer state stays authoritative.
func (m *Mixer) apply(t Track) {
	if m.player == nil {
		return
	}
	var err error
	if m.playing && t.Audible() {
		if err = m.player.Play(t); err == nil {
			err = m.player.SetVolume(t.Name, t.Volume)
		}
	} else {
		err = m.player.Pause(t.Name)
	}
	if err != nil {
		m.logger.Warn("ambient backend", zap.String("track", t.Name), zap.Error(err))
	}
}
