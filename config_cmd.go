package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# directory with recorded clips named {verb}_{person}.mp3 or .wav
# assets_dir: "~/verbski/audio"
# where preferences and fetched clips are kept (default: user data dir)
# data_dir: "~/.local/share/verbski"

# fetch clips that have no recording from the remote voice
network_voice: true
# playable clips kept ready in memory (three verbs, six forms each)
handle_cache_size: 18
# parallel fetches while preloading a verb
preload_concurrency: 3

audio:
  # 44100 or 48000
  sample_rate: 44100
  channels: 1
  buffer_size: 4096
  # 0.0 to 1.0
  volume: 1.0

# ElevenLabs text-to-speech
remote:
  endpoint: "https://api.elevenlabs.io"
  # api_key is read from ELEVENLABS_API_KEY when unset
  # api_key: ""
  voice_id: "21m00Tcm4TlvDq8ikWAM"
  model_id: "eleven_multilingual_v2"
  timeout: "15s"
  requests_per_minute: 60

# local speech synthesizer used when no clip can be found
synth:
  binary: "espeak-ng"

# fetched clips on disk
cache:
  enabled: true
  # megabytes
  max_size: 256
  ttl: "720h"
  # zstd level, 0 disables compression
  compression_level: 3
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the verbski config file",
	Long:    paragraph(fmt.Sprintf("\n%s the verbski config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("verbski config\nverbski config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Verbski", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
