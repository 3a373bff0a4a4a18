package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mlvnd/banner/internal/audio"
	"github.com/mlvnd/banner/internal/binding"
	"github.com/mlvnd/banner/internal/config"
	"github.com/mlvnd/banner/internal/present"
	"github.com/mlvnd/banner/internal/tui"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Launch the interactive binding demo",
	Long: `Launch an interactive terminal demo of the message binding.

Key bindings:
  l/n/c       Post a low/normal/critical message into the bound cell
  esc         Clear the cell (application-side hide)
  d           Dismiss on the presenter side (clears the cell via the loop)
  ?           Toggle help
  q           Quit`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	banner := tui.NewBanner(
		tui.WithLogger(logger),
		tui.WithDefaultConfig(cfg.PresentFor(present.SeverityNormal)),
	)
	present.SetDefault(banner)
	defer present.SetDefault(nil)

	var opts []binding.Option
	opts = append(opts, binding.WithLogger(logger))
	if sounds := cfg.SoundPaths(); sounds != nil {
		player := audio.NewPlayer(logger)
		player.SetVolume(float64(cfg.Audio.Volume) / 100)
		opts = append(opts, binding.WithSound(player, sounds))
	}

	model := tui.NewDemoModel(cfg, banner, opts...)
	defer model.Close()

	// Hot-reload per-severity defaults while the demo runs.
	watcher, err := config.NewWatcher(configPathOrDefault(), func(newCfg *config.Config) {
		banner.SetDefaultConfig(newCfg.PresentFor(present.SeverityNormal))
	})
	if err != nil {
		logger.Warn("config watcher unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	} else {
		defer func() { _ = watcher.Stop() }()
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("demo failed: %w", err)
	}
	return nil
}

// configPathOrDefault returns the explicit --config path or the
// default location.
func configPathOrDefault() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.Path()
}
