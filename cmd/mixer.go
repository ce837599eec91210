package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyz/internal/ambient"
	"github.com/abhisek/studyz/internal/study"
)

var mixerCmd = &cobra.Command{
	Use:   "mixer",
	Short: "Adjust the ambient sound mixer",
}

var mixerListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show tracks and volumes",
	RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
		for _, t := range engine.Mixer().Tracks() {
			muted := ""
			if t.Muted {
				muted = " (muted)"
			}
			fmt.Printf("%-8s %s %3.0f%%%s\n", t.Name, volumeBar(t.Volume, 20), t.Volume*100, muted)
		}
		if settings.Ambient.SoundDir == "" {
			fmt.Println("\nAudio is off: set ambient.sound_dir in", settingsPath)
		}
		return nil
	}),
}

var mixerSetCmd = &cobra.Command{
	Use:   "set <track> <volume>",
	Short: "Set a track volume (0-1 or a percentage)",
	Args:  cobra.ExactArgs(2),
	RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
		v, err := parseVolume(args[1])
		if err != nil {
			return err
		}
		got, err := engine.SetVolume(cmd.Context(), args[0], v)
		if err != nil {
			return trackError(engine, args[0], err)
		}
		fmt.Printf("%s → %.0f%%\n", args[0], got*100)
		return nil
	}),
}

func muteCmd(use string, muted bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <track>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a track, keeping its volume",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
			if err := engine.SetMuted(cmd.Context(), args[0], muted); err != nil {
				return trackError(engine, args[0], err)
			}
			fmt.Printf("%s %sd\n", args[0], use)
			return nil
		}),
	}
}

// trackError lists the known tracks when name isn't one of them.
func trackError(engine *study.Engine, name string, err error) error {
	if !errors.Is(err, ambient.ErrUnknownTrack) {
		return err
	}
	names := make([]string, 0, len(engine.Mixer().Tracks()))
	for _, t := range engine.Mixer().Tracks() {
		names = append(names, t.Name)
	}
	return fmt.Errorf("%w %q (have %s)", ambient.ErrUnknownTrack, name, strings.Join(names, ", "))
}

var mixerPlayCmd = &cobra.Command{
	Use:     "play",
	Aliases: []string{"toggle"},
	Short:   "Play the ambient mix until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if settings.Ambient.SoundDir == "" {
			return fmt.Errorf("no sound directory: set ambient.sound_dir in %s", settingsPath)
		}
		ctx := cmd.Context()
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := openEngine(ctx, st, true)
		if !engine.Mixer().Playing() {
			engine.ToggleMixer(ctx)
		}
		fmt.Println("Playing ambient mix. Ctrl+C to stop.")
		<-ctx.Done()

		engine.Mixer().SetPlaying(false)
		return closeEngine(ctx, engine)
	},
}

func init() {
	mixerCmd.AddCommand(mixerListCmd)
	mixerCmd.AddCommand(mixerSetCmd)
	mixerCmd.AddCommand(muteCmd("mute", true))
	mixerCmd.AddCommand(muteCmd("unmute", false))
	mixerCmd.AddCommand(mixerPlayCmd)
}

// parseVolume accepts "0.4", "40" or "40%".
func parseVolume(s string) (float64, error) {
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid volume %q", s)
	}
	if pct || v > 1 {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("volume %q out of range", s)
	}
	return v, nil
}

func volumeBar(v float64, width int) string {
	n := int(ambient.Snap(v) * float64(width))
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}
