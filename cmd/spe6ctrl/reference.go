package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vrazzer/LED-control/internal/ui"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the controller commands",
	Long: `List every command the controller accepts with its parameters.

Commands are given to 'connect' as arguments, with --cmd, or typed at the
interactive prompt. Parameters can be decimal or 0x-prefixed hexadecimal.`,
	Example: `  spe6ctrl connect desk "power 1" "set 128" "rgb 255 0 0 255"
  spe6ctrl connect desk --cmd "custom 4:193:49:28"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(ui.RenderUsage(ui.IsTerminal(os.Stdout)))
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Show the state record layout",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(ui.RenderFields(ui.IsTerminal(os.Stdout)))
	},
}
