// Package main provides the entry point for the verbski CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verbski/verbski/internal/config"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	debug      bool
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "verbski",
		Short: "Hear Russian verbs conjugated",
		Long: paragraph(
			fmt.Sprintf("\nPlay, preload and cache %s of Russian verbs.", keyword("spoken conjugations")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
	}
)

// validateOptions resolves the configuration for commands that need it.
func validateOptions(cmd *cobra.Command) error {
	if debug || viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	if !needsConfig(cmd) {
		return nil
	}

	if configFile != "" && configFile != viper.ConfigFileUsed() {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	c, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = c
	log.Debug("configuration loaded",
		"file", viper.ConfigFileUsed(),
		"assets", cfg.AssetsDir,
		"data", cfg.DataDir,
		"network_voice", cfg.NetworkVoice)
	return nil
}

// needsConfig reports whether cmd works on audio or preferences. Editing
// the config file and generating docs must work with a broken config.
func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "config", "man", "completion", "help":
			return false
		}
	}
	return true
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug output to the log file")
	rootCmd.PersistentFlags().String("assets", "", "directory with recorded clips ({verb}_{person}.mp3)")
	rootCmd.PersistentFlags().Bool("network-voice", true, "fetch missing clips from the remote voice")

	// Config bindings
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("assets_dir", rootCmd.PersistentFlags().Lookup("assets"))
	_ = viper.BindPFlag("network_voice", rootCmd.PersistentFlags().Lookup("network-voice"))

	config.SetDefaults(viper.GetViper())

	rootCmd.AddCommand(
		playCmd, preloadCmd, effectCmd, listenCmd,
		muteCmd, statusCmd, voicesCmd,
		goalCmd, progressCmd,
		configCmd, manCmd,
	)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "verbski")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "verbski")}, dirs...)
	}

	if c := os.Getenv("VERBSKI_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("verbski")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("verbski")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "verbski.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
