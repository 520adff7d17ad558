package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-tfmp/tfmp"
)

var (
	readCount    int
	readInterval time.Duration
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read distance, signal strength and temperature",
	Long: `read polls the sensor for measurement frames and prints one line per
reading. Weak-signal, saturation and ambient-light conditions are
reported inline instead of aborting the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if readCount < 1 {
			return errors.New("count must be at least 1")
		}

		ctx := cmd.Context()
		for i := 0; i < readCount; i++ {
			if i > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(readInterval):
				}
			}

			if session.FetchMeasurement(ctx) {
				printMeasurement(session.Measurement())
				continue
			}

			status := session.Status()
			switch status {
			case tfmp.StatusWeakSignal, tfmp.StatusSaturation,
				tfmp.StatusAmbientLight, tfmp.StatusOutOfRange:
				fmt.Println(warnStyle.Render(status.String()))
			default:
				return statusErr("read")
			}
		}

		return nil
	},
}

func printMeasurement(m tfmp.Measurement) {
	unit := cfg.Unit
	fmt.Printf("%s %s %s  %s %s  %s %s\n",
		labelStyle.Render("dist"),
		valueStyle.Render(fmt.Sprintf("%5d", m.Distance)),
		dimStyle.Render(unit),
		labelStyle.Render("flux"),
		valueStyle.Render(fmt.Sprintf("%5d", m.Flux)),
		labelStyle.Render("temp"),
		valueStyle.Render(fmt.Sprintf("%.1f°C", m.Temperature)),
	)
}

func init() {
	readCmd.Flags().IntVarP(&readCount, "count", "n", 1, "number of readings to take")
	readCmd.Flags().DurationVar(&readInterval, "interval", 100*time.Millisecond, "delay between readings")
	rootCmd.AddCommand(readCmd)
}
