package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-tfmp/tfmp"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Soft-reset the device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !session.SendCommand(cmd.Context(), tfmp.CmdSystemReset, 0) {
			return statusErr("reset")
		}

		fmt.Printf("%s device reset\n", okStyle.Render("OK"))

		return nil
	},
}

var factoryResetCmd = &cobra.Command{
	Use:   "factory-reset",
	Short: "Restore factory settings",
	Long: `factory-reset restores the device defaults: 100 Hz frame rate, 115200
baud, centimeter output format and I2C address 0x10. The restored
defaults are volatile until "tfmpctl save".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !session.SendCommand(cmd.Context(), tfmp.CmdRestoreFactory, 0) {
			return statusErr("factory-reset")
		}

		fmt.Printf("%s factory settings restored (run \"tfmpctl save\" to persist)\n",
			okStyle.Render("OK"))

		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Commit volatile setting changes to the device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !session.SendCommand(cmd.Context(), tfmp.CmdSaveSettings, 0) {
			return statusErr("save")
		}

		fmt.Printf("%s settings saved\n", okStyle.Render("OK"))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(factoryResetCmd)
	rootCmd.AddCommand(saveCmd)
}
