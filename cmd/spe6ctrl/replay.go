package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vrazzer/LED-control/internal/logging"
	"github.com/vrazzer/LED-control/internal/session"
	"github.com/vrazzer/LED-control/internal/ui"
)

var replayAddress string

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>",
	Short: "Decode a packet capture offline",
	Long: `Decode the state reports carried by a packet capture without a device.

The capture is either the packet log written by 'connect --log-level info'
or one hex dump per line, optionally prefixed with "recv" or "send". Use "-"
to read standard input.`,
	Example: `  spe6ctrl connect desk ? --log-level info 2> session.log
  spe6ctrl replay session.log`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayAddress, "address", "00:00:00:00:00:00", "Device address to report")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(""); err != nil {
		return err
	}
	defer logging.Sync()

	in := os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open capture: %w", err)
		}
		defer f.Close()
		in = f
	}

	stats, err := session.Replay(in, replayAddress, ui.NewConsole(os.Stdout, os.Stderr))
	if err != nil {
		return err
	}

	details := []ui.Param{
		{Key: "Lines", Value: fmt.Sprint(stats.Lines)},
		{Key: "Received", Value: fmt.Sprint(stats.Received)},
		{Key: "Sent", Value: fmt.Sprint(stats.Sent)},
		{Key: "Segments", Value: fmt.Sprint(stats.Segments)},
		{Key: "Dropped", Value: fmt.Sprint(stats.Dropped)},
		{Key: "Reports", Value: fmt.Sprint(stats.Reports)},
		{Key: "Invalid", Value: fmt.Sprint(stats.Invalid)},
	}
	if ui.IsTerminal(os.Stderr) {
		fmt.Fprintln(os.Stderr, ui.NewSuccessResult("Replay complete", details...).Render())
		return nil
	}
	for _, d := range details {
		fmt.Fprintf(os.Stderr, "%s: %s\n", d.Key, d.Value)
	}
	return nil
}
