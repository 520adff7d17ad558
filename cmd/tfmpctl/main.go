// tfmpctl is an operator CLI for the Benewake TFMini-Plus ranging sensor
// in I2C mode: probe the bus, stream measurements, query the firmware
// version and change device settings.
package main

import "github.com/arloliu/go-tfmp/cmd/tfmpctl/cmd"

func main() {
	cmd.Execute()
}
