package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlvnd/banner/internal/binding"
	"github.com/mlvnd/banner/internal/model"
	"github.com/mlvnd/banner/internal/present"
	"github.com/mlvnd/banner/internal/present/dbusnotify"
)

var sendOpts struct {
	severity string
	timeout  time.Duration
	wait     bool
	format   string
}

var sendCmd = &cobra.Command{
	Use:   "send SUMMARY [BODY]",
	Short: "Show one message as a desktop notification",
	Long: `Show a single message through the desktop's notification service
(org.freedesktop.Notifications).

With --wait, the command blocks until the notification is dismissed
(timeout, user action, or programmatic close) and prints the reason.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.severity, "severity", "s", "normal",
		"Message severity (low, normal, critical)")
	sendCmd.Flags().DurationVarP(&sendOpts.timeout, "timeout", "t", 0,
		"Override the configured timeout (0 uses the config)")
	sendCmd.Flags().BoolVarP(&sendOpts.wait, "wait", "w", false,
		"Block until the message is dismissed")
	sendCmd.Flags().StringVarP(&sendOpts.format, "format", "f", "text",
		"Output format for the sent message (text, json, yaml)")
}

// parseSeverity maps a severity name to its level.
func parseSeverity(name string) (int, error) {
	for level, n := range present.SeverityNames {
		if n == name {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q (want low, normal, or critical)", name)
}

func runSend(cmd *cobra.Command, args []string) error {
	severity, err := parseSeverity(sendOpts.severity)
	if err != nil {
		return err
	}

	msg, err := model.New(args[0], argOrEmpty(args, 1))
	if err != nil {
		return err
	}
	msg.SetSeverity(severity)

	presenter, err := dbusnotify.New(
		dbusnotify.WithLogger(logger),
		dbusnotify.WithAppName("banner"),
	)
	if err != nil {
		return fmt.Errorf("notification service unavailable: %w", err)
	}
	defer presenter.Close()

	// The explicit config is used verbatim; the binding only appends
	// its own dismissal listener, so ours below survives.
	sendCfg := cfg.PresentFor(severity)
	if sendOpts.timeout > 0 {
		sendCfg.Timeout = sendOpts.timeout
	}
	reasonCh := make(chan present.Reason, 1)
	sendCfg.OnDismiss(func(ev present.DismissalEvent) {
		if ev.Kind == present.KindDidHide {
			select {
			case reasonCh <- ev.Reason:
			default:
			}
		}
	})

	cell := binding.NewCell()
	bnd := binding.BindDefault(cell,
		binding.WithPresenter(presenter),
		binding.WithConfig(sendCfg),
		binding.WithLogger(logger),
	)
	defer bnd.Close()

	cell.Set(msg)

	if err := printMessage(msg, sendOpts.format); err != nil {
		return err
	}

	if !sendOpts.wait {
		return nil
	}

	reason := <-reasonCh
	fmt.Printf("dismissed: %s\n", reason)
	return nil
}

// argOrEmpty returns args[i] or "" when absent.
func argOrEmpty(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// printMessage writes the sent message to stdout in the requested
// format.
func printMessage(msg *model.Message, format string) error {
	switch format {
	case "text":
		fmt.Printf("%s [%s] %s\n", msg.ID, msg.SeverityName, msg.Summary)
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(msg)
	case "yaml":
		return msg.EncodeYAML(os.Stdout)
	default:
		return fmt.Errorf("unknown format %q (want text, json, or yaml)", format)
	}
}
