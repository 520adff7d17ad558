package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-tfmp/tfmp"
)

var outputCmd = &cobra.Command{
	Use:       "output <on|off>",
	Short:     "Enable or disable periodic data output",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var toggle tfmp.Command
		switch args[0] {
		case "on":
			toggle = tfmp.CmdEnableOutput
		case "off":
			toggle = tfmp.CmdDisableOutput
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}

		if !session.SendCommand(cmd.Context(), toggle, 0) {
			return statusErr("output")
		}

		fmt.Printf("%s data output %s\n", okStyle.Render("OK"), args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(outputCmd)
}
