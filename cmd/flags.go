package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opendataregistry/regsite/internal/config"
	"github.com/opendataregistry/regsite/internal/flags"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List feature flags",
	Long: `List every known feature flag and whether it is enabled.

Examples:
  regsite flags
  regsite flags set service-pages true`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := flags.New(cfg.Flags)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, name := range flags.Known() {
			state := subtleStyle.Render("off")
			if registry.Enabled(name) {
				state = successStyle.Render("on")
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\n", name, state)
		}
		return w.Flush()
	},
}

var flagsSetCmd = &cobra.Command{
	Use:   "set <flag> <true|false>",
	Short: "Enable or disable a feature flag in the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !isKnownFlag(name) {
			return fmt.Errorf("unknown flag %q (known: %v)", name, flags.Known())
		}
		enabled, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("flag value must be true or false, got %q", args[1])
		}

		path := configPath()
		if err := config.SetFlag(path, cfg.Flags, name, enabled); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s=%t saved to %s\n", successStyle.Render("✓"), name, enabled, path)
		return nil
	},
}

func isKnownFlag(name string) bool {
	for _, known := range flags.Known() {
		if known == name {
			return true
		}
	}
	return false
}

func init() {
	flagsCmd.AddCommand(flagsSetCmd)
	rootCmd.AddCommand(flagsCmd)
}
