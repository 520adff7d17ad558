package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-tfmp/logger"
	"github.com/arloliu/go-tfmp/simulator"
	"github.com/arloliu/go-tfmp/tfmp"
)

var (
	// Global flags.
	cfgFile  string
	busFlag  int
	addrFlag int
	simFlag  bool
	debug    bool

	// Shared state set during PersistentPreRun.
	cfg       *Config
	session   *tfmp.Session
	transport tfmp.Transport
	closeBus  func() error
)

// rootCmd is the base command for tfmpctl.
var rootCmd = &cobra.Command{
	Use:   "tfmpctl",
	Short: "Control a Benewake TFMini-Plus ranging sensor over I2C",
	Long: `tfmpctl talks to a TFMini-Plus LiDAR sensor in I2C mode: probe the
bus, stream distance/signal/temperature readings, query the firmware
version and change device settings (frame rate, baud rate, slave
address, output format).

Settings changed with set-* commands are volatile until "tfmpctl save"
commits them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if debug {
			logger.SetLevel(logger.DebugLevel)
		}

		path := cfgFile
		if path == "" {
			path = DefaultPath()
		}

		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("bus") {
			cfg.Bus = busFlag
		}
		if cmd.Flags().Changed("address") {
			cfg.Address = addrFlag
		}

		if simFlag {
			dev := simulator.New()
			transport = dev
			closeBus = func() error { return nil }
		} else {
			transport, closeBus, err = openBus(cfg.Bus)
			if err != nil {
				return err
			}
		}

		unit := tfmp.UnitCentimeter
		if cfg.Unit == "mm" {
			unit = tfmp.UnitMillimeter
		}

		scfg, err := tfmp.NewSessionConfig(
			tfmp.WithAddress(byte(cfg.Address)),
			tfmp.WithReadTimeout(time.Duration(cfg.Timeout)),
			tfmp.WithUnit(unit),
		)
		if err != nil {
			return err
		}

		session, err = tfmp.NewSession(transport, scfg)

		return err
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if closeBus != nil {
			return closeBus()
		}

		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// statusErr turns the session's last status into a CLI error.
func statusErr(op string) error {
	return fmt.Errorf("%s failed: %s", op, session.Status())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/tfmpctl/config.yaml)")
	rootCmd.PersistentFlags().IntVar(&busFlag, "bus", 4, "I2C adapter number (/dev/i2c-N)")
	rootCmd.PersistentFlags().IntVar(&addrFlag, "address", 0x10, "7-bit device address")
	rootCmd.PersistentFlags().BoolVar(&simFlag, "sim", false, "talk to an in-memory simulated device instead of real hardware")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log wire traffic")
}
