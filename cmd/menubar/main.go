package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mchmarny/menubar/pkg/logger"
	"github.com/mchmarny/menubar/pkg/menu"
	"github.com/mchmarny/menubar/pkg/server"
)

var (
	version = "v0.0.0"  // Set at build time via -ldflags "-X main.version=version"
	commit  = "none"    // Set at build time via -ldflags "-X main.commit=commit"
	date    = "unknown" // Set at build time via -ldflags "-X main.date=date"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// menuFlags are shared by commands that build a menu.
type menuFlags struct {
	path     string
	width    int
	autoOpen bool
}

func (f *menuFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "menu", "m", "", "TOML menu definition (built-in demo menu when empty)")
	cmd.Flags().IntVar(&f.width, "width", -1, "explicit menu bar width in pixels; enables the more item")
	cmd.Flags().BoolVar(&f.autoOpen, "auto-open", false, "open top-level menus on hover")
}

// build loads the menu and applies flag overrides.
func (f *menuFlags) build(cmd *cobra.Command) (*menu.Menu, error) {
	m, err := loadMenu(f.path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("width") {
		m.SetWidth(f.width)
	}
	if cmd.Flags().Changed("auto-open") {
		m.SetAutoOpen(f.autoOpen)
	}

	return m, nil
}

func newRootCmd() *cobra.Command {
	var level string

	root := &cobra.Command{
		Use:          "menubar",
		Short:        "Serve a collapsible menu bar to a remote rendering client",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.SetDefault("menubar", version, level)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("menubar %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVar(&level, "log-level", "", "log level (debug, info, warn, error); defaults to $"+logger.EnvVarLogLevel)

	root.AddCommand(newServeCmd())
	root.AddCommand(newRenderCmd())

	return root
}

func newServeCmd() *cobra.Command {
	var (
		flags menuFlags
		port  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the menu over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := flags.build(cmd)
			if err != nil {
				return err
			}

			slog.Info("starting menubar", "commit", commit, "date", date)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := m.Run(ctx, server.WithPort(port)); err != nil {
				slog.Error("server error", "error", err)
				return err
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&port, "port", "p", server.DefaultPort, "port to run the server on")

	return cmd
}

func newRenderCmd() *cobra.Command {
	var flags menuFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the rendered menu tree as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := flags.build(cmd)
			if err != nil {
				return err
			}

			tag, err := m.Render()
			if err != nil {
				return fmt.Errorf("failed to render menu: %w", err)
			}

			out, err := json.MarshalIndent(tag, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode menu: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	flags.register(cmd)

	return cmd
}
