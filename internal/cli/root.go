// Package cli implements the modloader commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/modloader/internal/app"
)

// Version information (set via ldflags during build).
var (
	Version = "dev"
	Commit  = "unknown"
)

var opts app.Options

// RootCmd is the top-level command. Without a subcommand it runs the
// terminal host.
var RootCmd = &cobra.Command{
	Use:           "modloader",
	Short:         "Load and run Lua script mods",
	Long:          "Discovers script mods, runs them every frame and shows their options in a terminal window.",
	Version:       Version + " (" + Commit + ")",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runHost,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Settings file (default modloader.toml)")
	flags.StringVarP(&opts.ModsDir, "mods", "m", "", "Mods directory (overrides paths.mods_dir)")
	flags.StringVar(&opts.DataDir, "data", "", "Directory for load order and console history (overrides paths.data_dir)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.LogFile, "log-file", "", "Log file (overrides logging.file)")
}
