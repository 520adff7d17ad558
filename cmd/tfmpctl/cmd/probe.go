package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the device answers on the bus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !session.Probe(cmd.Context()) {
			return statusErr("probe")
		}

		fmt.Printf("%s device found at 0x%02X\n", okStyle.Render("OK"), session.Address())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
