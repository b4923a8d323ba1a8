package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verbski/verbski/internal/audio"
	"github.com/verbski/verbski/internal/playback"
	"github.com/verbski/verbski/internal/tts"
)

var (
	playText string

	playCmd = &cobra.Command{
		Use:     "play VERB PERSON",
		Short:   "Speak one conjugated form",
		Long:    paragraph(fmt.Sprintf("\n%s a verb in one grammatical person. PERSON is a key (ya, ti, on_ona_ono, mi, vi, oni) or a pronoun (я, ты, она).", keyword("Speak"))),
		Example: paragraph("verbski play читать ya\nverbski play читать мы --text \"мы читаем\""),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			person, err := playback.ParsePerson(args[1])
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			if a.coord.Muted() {
				fmt.Fprintln(cmd.OutOrStdout(), faint("audio is muted (verbski mute to unmute)"))
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a.coord.PlayText(ctx, args[0], person, playText)
			waitIdle(ctx, a.coord)
			return nil
		},
	}

	preloadCmd = &cobra.Command{
		Use:     "preload VERB...",
		Short:   "Fetch all six forms of each verb ahead of time",
		Example: paragraph("verbski preload читать писать"),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			for _, word := range args {
				start := time.Now()
				a.coord.Preload(ctx, word)
				n := 0
				for _, p := range playback.Persons {
					if a.coord.Cached(word, p) {
						n++
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d forms ready %s\n",
					keyword(word), n, len(playback.Persons), faint(time.Since(start).Round(time.Millisecond).String()))
			}
			if a.clips != nil {
				st := a.clips.Stats()
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", faint(fmt.Sprintf("clip cache: %d clips, %s",
					st.ItemCount, humanize.IBytes(uint64(st.Size))))) //nolint:gosec
			}
			return nil
		},
	}

	effectCmd = &cobra.Command{
		Use:       "effect KIND",
		Short:     "Play an interface sound (hover, correct, wrong)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(audio.EffectHover), string(audio.EffectCorrect), string(audio.EffectWrong)},
		RunE: func(cmd *cobra.Command, args []string) error {
			effect, err := audio.ParseEffect(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			a.coord.PlayEffect(effect)
			// let the device drain before closing it
			time.Sleep(effect.Duration() + 100*time.Millisecond)
			return nil
		},
	}

	muteCmd = &cobra.Command{
		Use:   "mute",
		Short: "Toggle the persisted mute flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			muted, err := st.Muted()
			if err != nil {
				return err
			}
			if err := st.SetMuted(!muted); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), muteStatus(!muted))
			return nil
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show voices, caches and preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printStatus(cmd)
		},
	}

	voicesCmd = &cobra.Command{
		Use:   "voices",
		Short: "List the built-in remote voices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, v := range tts.Voices() {
				mark := "  "
				if v.ID == cfg.Remote.VoiceID {
					mark = keyword("* ")
				}
				fmt.Fprintf(w, "%s%-12s %s\n", mark, v.Name, faint(v.ID))
			}
			return nil
		},
	}
)

func init() {
	playCmd.Flags().StringVar(&playText, "text", "", "text for the remote and local voices (default: the verb)")
}

func muteStatus(muted bool) string {
	if muted {
		return "audio " + keyword("muted")
	}
	return "audio " + keyword("on")
}

func printStatus(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	ctx := cmd.Context()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	muted, err := st.Muted()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, muteStatus(muted))
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "config:  %s\n", used)
	}
	fmt.Fprintf(w, "data:    %s\n", cfg.DataDir)
	if cfg.AssetsDir != "" {
		fmt.Fprintf(w, "assets:  %s\n", cfg.AssetsDir)
	}
	if logFile, err := getLogFilePath(); err == nil {
		fmt.Fprintf(w, "log:     %s\n", logFile)
	}

	fmt.Fprintln(w)
	remote := tts.ValidateRemote(cfg.Remote.Endpoint, cfg.Remote.APIKey, cfg.Remote.VoiceID)
	if !cfg.NetworkVoice {
		remote.Details["state"] = "disabled"
	}
	printValidation(w, remote)
	printValidation(w, tts.ValidateSpeaker(cfg.Synth.Binary))

	if clips, err := openClipCache(cfg); err != nil {
		fmt.Fprintf(w, "\nclip cache: %v\n", err)
	} else if clips != nil {
		s := clips.Stats()
		fmt.Fprintf(w, "\nclip cache: %d clips, %s of %s\n",
			s.ItemCount, humanize.IBytes(uint64(s.Size)), humanize.IBytes(uint64(s.Capacity))) //nolint:gosec
		if !s.LastEvict.IsZero() {
			fmt.Fprintf(w, "last evicted %s\n", humanize.Time(s.LastEvict))
		}
		_ = clips.Close()
	}

	goal, err := st.DailyGoal(ctx)
	if err != nil {
		return err
	}
	done, err := st.DailyProgress(ctx, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\ntoday: %d of %d correct\n", done, goal)
	return nil
}

func printValidation(w io.Writer, r *tts.ValidationResult) {
	state := keyword("ok")
	if !r.Available {
		state = "unavailable"
	}
	fmt.Fprintf(w, "%-11s %s\n", r.Engine+":", state)
	for _, k := range slices.Sorted(maps.Keys(r.Details)) {
		fmt.Fprintf(w, "  %s\n", faint(k+": "+r.Details[k]))
	}
	if r.Error != nil {
		fmt.Fprintf(w, "  %v\n", r.Error)
	}
	if r.Guidance != "" {
		for _, line := range strings.Split(strings.TrimSpace(r.Guidance), "\n") {
			fmt.Fprintf(w, "  %s\n", faint(line))
		}
	}
}
