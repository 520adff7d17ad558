//go:build linux

package cmd

import (
	"github.com/arloliu/go-tfmp/i2cbus"
	"github.com/arloliu/go-tfmp/tfmp"
)

func openBus(adapter int) (tfmp.Transport, func() error, error) {
	bus, err := i2cbus.Open(adapter)
	if err != nil {
		return nil, nil, err
	}

	return bus, bus.Close, nil
}
