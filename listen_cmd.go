package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/verbski/verbski/internal/audio"
	"github.com/verbski/verbski/internal/playback"
)

var errQuit = errors.New("quit")

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Read playback commands from stdin",
	Long: paragraph(fmt.Sprintf("\n%s for commands, one per line:\n\n"+
		"  play VERB PERSON [TEXT]\n  preload VERB\n  stop\n  mute\n  effect KIND\n  status\n  quit\n\n"+
		"Editing network_voice in the config file takes effect immediately.", keyword("Listen"))),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		watchConfig(a.coord)
		return listen(ctx, a.coord, os.Stdin, cmd.OutOrStdout(), term.IsTerminal(int(os.Stdin.Fd()))) //nolint:gosec
	},
}

// watchConfig applies network_voice changes from the config file.
func watchConfig(c *playback.Coordinator) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		log.Debug("config file changed", "path", e.Name, "op", e.Op.String())
		c.SetNetworkVoice(viper.GetBool("network_voice"))
	})
	viper.WatchConfig()
}

// listen runs the line protocol until quit, EOF or ctx is done.
func listen(ctx context.Context, c *playback.Coordinator, r io.Reader, w io.Writer, prompt bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		s := bufio.NewScanner(r)
		for s.Scan() {
			select {
			case lines <- s.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- s.Err()
	}()

	for {
		if prompt {
			fmt.Fprint(w, keyword("› "))
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			err := handleLine(ctx, c, line, w)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintln(w, "error:", err)
			}
		}
	}
}

// handleLine executes one protocol command.
func handleLine(ctx context.Context, c *playback.Coordinator, line string, w io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "play", "p":
		if len(args) < 2 {
			return errors.New("usage: play VERB PERSON [TEXT]")
		}
		person, err := playback.ParsePerson(args[1])
		if err != nil {
			return err
		}
		c.PlayText(ctx, args[0], person, strings.Join(args[2:], " "))
		fmt.Fprintln(w, c.State())
	case "preload":
		if len(args) != 1 {
			return errors.New("usage: preload VERB")
		}
		c.Preload(ctx, args[0])
		fmt.Fprintln(w, "ok")
	case "stop", "s":
		c.Stop()
		fmt.Fprintln(w, c.State())
	case "mute", "m":
		fmt.Fprintln(w, muteStatus(c.ToggleMute()))
	case "effect", "e":
		if len(args) != 1 {
			return errors.New("usage: effect KIND")
		}
		effect, err := audio.ParseEffect(args[0])
		if err != nil {
			return err
		}
		c.PlayEffect(effect)
	case "status":
		fmt.Fprintf(w, "%s, %s, network voice %t, %d clips ready\n",
			c.State(), muteStatus(c.Muted()), c.NetworkVoice(), len(c.CachedKeys()))
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
