// Spe6ctrl controls SP630E LED controllers over Bluetooth LE.
//
// It connects to one controller, identifies it, sends commands given on
// the command line or typed interactively, and prints the controller
// state after every query: the changed bytes on stderr and the decoded
// fields on stdout.
//
// Usage:
//
//	spe6ctrl connect <address|alias> [timeout] [command ...]
//
// See 'spe6ctrl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vrazzer/LED-control/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spe6ctrl",
	Short: "SP630E LED Controller Utility",
	Long: `A command-line utility for SP630E family LED controllers.

Connects over Bluetooth LE, identifies the controller, sends commands and
reports the controller state after every query. State can additionally be
served over HTTP (status, metrics, WebSocket stream) and published to MQTT.`,
	Version:       version.Version,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("spe6ctrl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
