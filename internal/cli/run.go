package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/modloader/internal/app"
	"github.com/dshills/modloader/internal/renderer/backend"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the terminal host",
		RunE:  runHost,
	}
	cmd.Flags().IntVar(&opts.FrameRate, "fps", app.DefaultFrameRate, "Frames per second")
	RootCmd.AddCommand(cmd)
}

func runHost(cmd *cobra.Command, _ []string) error {
	if err := validateLevel(opts.LogLevel); err != nil {
		return err
	}

	application, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	application.SetBackend(term)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case <-signals:
			application.Shutdown()
		case <-cmd.Context().Done():
			application.Shutdown()
		}
	}()

	return application.Run()
}

func validateLevel(level string) error {
	switch level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", level)
	}
}
