package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-tfmp/tfmp"
)

// cliVersion is stamped at build time via -ldflags.
var cliVersion = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tfmpctl and device firmware versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Printf("%s %s\n", labelStyle.Render("tfmpctl"), valueStyle.Render(cliVersion))

		if !session.SendCommand(cmd.Context(), tfmp.CmdFirmwareVersion, 0) {
			return statusErr("firmware version query")
		}

		fmt.Printf("%s %s\n", labelStyle.Render("firmware"), valueStyle.Render(session.Version()))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
