// Package config loads the user settings file, applies STUDYZ_*
// environment overrides and watches the file for edits.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/studyz/internal/ambient"
	"github.com/abhisek/studyz/internal/progress"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "STUDYZ_"

// Settings is the user-editable configuration.
type Settings struct {
	Timer    TimerSettings    `yaml:"timer" envPrefix:"TIMER_"`
	Autosave time.Duration    `yaml:"autosave" env:"AUTOSAVE"`
	Rewards  progress.Rewards `yaml:"xp" envPrefix:"XP_"`
	Quiz     QuizSettings     `yaml:"quiz" envPrefix:"QUIZ_"`
	Ambient  AmbientSettings  `yaml:"ambient" envPrefix:"AMBIENT_"`
	Server   ServerSettings   `yaml:"server" envPrefix:"SERVER_"`
}

// TimerSettings holds the pomodoro lengths.
type TimerSettings struct {
	Study     time.Duration `yaml:"study" env:"STUDY"`
	Break     time.Duration `yaml:"break" env:"BREAK"`
	AutoStart bool          `yaml:"auto_start" env:"AUTO_START"`
}

// QuizSettings holds how many items a generation request asks for.
type QuizSettings struct {
	Questions int `yaml:"questions" env:"QUESTIONS"`
	Cards     int `yaml:"cards" env:"CARDS"`
}

// AmbientSettings configures the mixer backend.
type AmbientSettings struct {
	// SoundDir holds the track files. Empty disables audio.
	SoundDir string          `yaml:"sound_dir" env:"SOUND_DIR"`
	Chime    string          `yaml:"chime" env:"CHIME"`
	Tracks   []ambient.Track `yaml:"tracks"`
}

// ServerSettings configures `studyz serve`.
type ServerSettings struct {
	Addr      string `yaml:"addr" env:"ADDR"`
	OllamaURL string `yaml:"ollama_url" env:"OLLAMA_URL"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Timer: TimerSettings{
			Study: 25 * time.Minute,
			Break: 5 * time.Minute,
		},
		Autosave: 30 * time.Second,
		Rewards:  progress.DefaultRewards(),
		Quiz: QuizSettings{
			Questions: 5,
			Cards:     8,
		},
		Ambient: AmbientSettings{
			Chime:  "success.mp3",
			Tracks: ambient.DefaultTracks(),
		},
		Server: ServerSettings{
			Addr:      "127.0.0.1:4317",
			OllamaURL: "http://localhost:11434",
		},
	}
}

// Load reads the settings file at path on top of the defaults, then
// applies environment overrides. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return s, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&s, env.Options{Prefix: EnvPrefix}); err != nil {
		return s, fmt.Errorf("parse environment: %w", err)
	}

	s.Normalize()
	return s, nil
}

// Save writes the settings as YAML, creating the directory if needed.
func (s Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Normalize replaces out-of-range values with their defaults.
func (s *Settings) Normalize() {
	d := Default()
	if s.Timer.Study <= 0 {
		s.Timer.Study = d.Timer.Study
	}
	if s.Timer.Break <= 0 {
		s.Timer.Break = d.Timer.Break
	}
	if s.Autosave < time.Second {
		s.Autosave = d.Autosave
	}
	if s.Quiz.Questions < 1 || s.Quiz.Questions > 20 {
		s.Quiz.Questions = d.Quiz.Questions
	}
	if s.Quiz.Cards < 1 || s.Quiz.Cards > 30 {
		s.Quiz.Cards = d.Quiz.Cards
	}
	if len(s.Ambient.Tracks) == 0 {
		s.Ambient.Tracks = d.Ambient.Tracks
	}
	if s.Server.Addr == "" {
		s.Server.Addr = d.Server.Addr
	}
	if s.Server.OllamaURL == "" {
		s.Server.OllamaURL = d.Server.OllamaURL
	}
	r := &s.Rewards
	for _, v := range []*int{&r.StudySecond, &r.TaskAdded, &r.TaskCompleted, &r.QuizCorrect, &r.QuizPerfect} {
		if *v < 0 {
			*v = 0
		}
	}
}

// DefaultPath resolves the settings file path:
// 1. STUDYZ_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/studyz/config.yaml
// 3. ~/.config/studyz/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p, nil
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "studyz", "config.yaml"), nil
}

// LoadDotEnv loads KEY=value pairs from files (default ".env") into the
// process environment. Variables already set are kept. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
