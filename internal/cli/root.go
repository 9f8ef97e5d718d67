package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/lounge/internal/config"
	lerrors "github.com/tessro/lounge/internal/errors"
	"github.com/tessro/lounge/internal/logging"
)

var (
	cfgFile   string
	jsonOut   bool
	verbose   bool
	musicPath string
	listPath  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lounge",
	Short: "Background jazz for your terminal",
	Long: `Lounge plays a long music mix at a low volume, fading it in and out,
following which track of the mix is on and drawing frequency bars.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.loungerc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&musicPath, "music", "m", "", "MP3 mix to play (overrides music.path)")
	rootCmd.PersistentFlags().StringVar(&listPath, "playlist", "", "playlist file (overrides music.playlist)")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if musicPath != "" {
		cfg.Music.Path = musicPath
	}
	if listPath != "" {
		cfg.Music.Playlist = listPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	return nil
}

// setupLogging installs the logger for a command. stderr is off for
// full-screen commands.
func setupLogging(stderr bool) (*slog.Logger, func(), error) {
	logger, closeLog, err := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Stderr: stderr,
	})
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = closeLog() }, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, lerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
