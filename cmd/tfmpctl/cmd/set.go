package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-tfmp/tfmp"
)

var setRateCmd = &cobra.Command{
	Use:   "set-rate <hz>",
	Short: "Set the internal measurement frame rate",
	Long: `set-rate changes the measurement rate in Hz. The value must be one of
the standard rates: 0, 1, 2, 5, 10, 20, 25, 50, 100, 125, 200, 250,
500 or 1000. A rate of 0 disables periodic measurement; use trigger
mode instead. The change is volatile until "tfmpctl save".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid frame rate %q: %w", args[0], err)
		}

		if !session.SendCommand(cmd.Context(), tfmp.CmdSetFrameRate, uint32(rate)) {
			return statusErr("set-rate")
		}

		fmt.Printf("%s frame rate set to %d Hz (run \"tfmpctl save\" to persist)\n",
			okStyle.Render("OK"), rate)

		return nil
	},
}

var setBaudCmd = &cobra.Command{
	Use:   "set-baud <rate>",
	Short: "Set the UART baud rate",
	Long: `set-baud changes the serial baud rate used when the device is in UART
mode. The value must be one of: 9600, 14400, 19200, 56000, 115200,
460800 or 921600. The change is volatile until "tfmpctl save".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baud, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid baud rate %q: %w", args[0], err)
		}

		if !session.SendCommand(cmd.Context(), tfmp.CmdSetBaudRate, uint32(baud)) {
			return statusErr("set-baud")
		}

		fmt.Printf("%s baud rate set to %d (run \"tfmpctl save\" to persist)\n",
			okStyle.Render("OK"), baud)

		return nil
	},
}

var setAddressCmd = &cobra.Command{
	Use:   "set-address <addr>",
	Short: "Change the 7-bit I2C slave address",
	Long: `set-address stages a new I2C slave address in the range [1, 127]. The
address accepts decimal or 0x-prefixed hex. The device keeps answering
on the old address until the change is saved and the device is reset.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := strconv.ParseUint(args[0], 0, 8)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", args[0], err)
		}

		if !session.SendCommand(cmd.Context(), tfmp.CmdSetI2CAddress, uint32(addr)) {
			return statusErr("set-address")
		}

		fmt.Printf("%s address 0x%02X staged (save and reset to apply)\n",
			okStyle.Render("OK"), addr)

		return nil
	},
}

var setFormatCmd = &cobra.Command{
	Use:       "set-format <cm|mm|pixhawk>",
	Short:     "Select the serial output format",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"cm", "mm", "pixhawk"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var format tfmp.Command
		switch args[0] {
		case "cm":
			format = tfmp.CmdStandardFormatCM
		case "mm":
			format = tfmp.CmdStandardFormatMM
		case "pixhawk":
			format = tfmp.CmdPixhawkFormat
		default:
			return fmt.Errorf("unknown format %q, expected cm, mm or pixhawk", args[0])
		}

		if !session.SendCommand(cmd.Context(), format, 0) {
			return statusErr("set-format")
		}

		fmt.Printf("%s output format set to %s (run \"tfmpctl save\" to persist)\n",
			okStyle.Render("OK"), args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(setRateCmd)
	rootCmd.AddCommand(setBaudCmd)
	rootCmd.AddCommand(setAddressCmd)
	rootCmd.AddCommand(setFormatCmd)
}
