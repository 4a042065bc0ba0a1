package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrazzer/LED-control/internal/config"
)

var aliasNote string

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage device aliases",
	Long: `Manage the device aliases stored in the configuration file.

An alias can be used anywhere a device address is accepted.`,
}

var aliasSetCmd = &cobra.Command{
	Use:   "set <name> <address>",
	Short: "Create or update an alias",
	Example: `  spe6ctrl alias set desk C0:00:00:00:12:34
  spe6ctrl alias set shelf C0:00:00:00:12:35 --note "kitchen shelf"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if err := reg.SetAlias(args[0], args[1], aliasNote); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Printf("%s -> %s\n", strings.ToLower(args[0]), reg.GetDevice(args[0]).Address)
		return nil
	},
}

var aliasRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove an alias",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if !reg.RemoveAlias(args[0]) {
			return fmt.Errorf("no alias named %q", args[0])
		}
		return reg.Save()
	},
}

var aliasListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List aliases",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		names := reg.Aliases()
		if len(names) == 0 {
			fmt.Println("No aliases configured.")
			fmt.Println("Use 'spe6ctrl alias set <name> <address>' to add one")
			return nil
		}
		for _, name := range names {
			fmt.Println(formatAlias(name, reg.GetDevice(name)))
		}
		return nil
	},
}

func formatAlias(name string, device *config.Device) string {
	line := fmt.Sprintf("%-12s %s", name, device.Address)
	if device.LastKind != "" {
		line += fmt.Sprintf("  %s (%s)", device.LastKind, device.LastSeen.Format("2006-01-02 15:04"))
	}
	if device.Note != "" {
		line += "  # " + device.Note
	}
	return line
}

func init() {
	aliasSetCmd.Flags().StringVar(&aliasNote, "note", "", "Free-form description")

	aliasCmd.AddCommand(aliasSetCmd)
	aliasCmd.AddCommand(aliasRemoveCmd)
	aliasCmd.AddCommand(aliasListCmd)
}
