package ambient

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const sampleRate = 44100

// ebiten allows a single audio context per process.
var (
	contextOnce  sync.Once
	audioContext *audio.Context
)

func sharedContext() *audio.Context {
	contextOnce.Do(func() {
		audioContext = audio.NewContext(sampleRate)
	})
	return audioContext
}

// decodedStream is what every ebiten decoder returns.
type decodedStream interface {
	io.ReadSeeker
	Length() int64
}

// decoderFor picks a decoder by file extension.
func decoderFor(path string) (func(io.Reader) (decodedStream, error), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return func(r io.Reader) (decodedStream, error) { return mp3.DecodeWithSampleRate(sampleRate, r) }, nil
	case ".wav":
		return func(r io.Reader) (decodedStream, error) { return wav.DecodeWithSampleRate(sampleRate, r) }, nil
	case ".ogg":
		return func(r io.Reader) (decodedStream, error) { return vorbis.DecodeWithSampleRate(sampleRate, r) }, nil
	default:
		return nil, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
}

// EbitenPlayer plays looping tracks from a sound directory through
// ebiten's audio package. Files are opened on first play.
type EbitenPlayer struct {
	dir       string
	chimeFile string

	mu      sync.Mutex
	players map[string]*audio.Player
	files   []*os.File
	chime   *audio.Player
}

// NewEbitenPlayer creates a player reading sound files from dir.
// chimeFile, relative to dir, is the one-shot notification sound; empty
// disables it.
func NewEbitenPlayer(dir, chimeFile string) *EbitenPlayer {
	return &EbitenPlayer{
		dir:       dir,
		chimeFile: chimeFile,
		players:   make(map[string]*audio.Player),
	}
}

func (p *EbitenPlayer) Play(t Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pl, ok := p.players[t.Name]
	if !ok {
		var err error
		pl, err = p.open(t.File, true)
		if err != nil {
			return fmt.Errorf("load %s: %w", t.Name, err)
		}
		p.players[t.Name] = pl
	}
	if !pl.IsPlaying() {
		pl.Play()
	}
	return nil
}

func (p *EbitenPlayer) Pause(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pl, ok := p.players[name]; ok {
		pl.Pause()
	}
	return nil
}

func (p *EbitenPlayer) SetVolume(name string, v float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pl, ok := p.players[name]; ok {
		pl.SetVolume(v)
	}
	return nil
}

// Chime plays the notification sound from the start.
func (p *EbitenPlayer) Chime() error {
	if p.chimeFile == "" {
		return fmt.Errorf("no chime configured")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.chime == nil {
		pl, err := p.open(p.chimeFile, false)
		if err != nil {
			return fmt.Errorf("load chime: %w", err)
		}
		p.chime = pl
	}
	if err := p.chime.Rewind(); err != nil {
		return err
	}
	p.chime.Play()
	return nil
}

func (p *EbitenPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for name, pl := range p.players {
		if err := pl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.players, name)
	}
	if p.chime != nil {
		p.chime.Close()
		p.chime = nil
	}
	for _, f := range p.files {
		f.Close()
	}
	p.files = nil
	return firstErr
}

// open decodes a sound file into a player. The file stays open for
// streaming until Close.
func (p *EbitenPlayer) open(file string, loop bool) (*audio.Player, error) {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, file)
	}
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stream, err := decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}

	var src io.Reader = stream
	if loop {
		src = audio.NewInfiniteLoop(stream, stream.Length())
	}
	pl, err := sharedContext().NewPlayer(src)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.files = append(p.files, f)
	return pl, nil
}
