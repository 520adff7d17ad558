//go:build !linux

package cmd

import (
	"errors"

	"github.com/arloliu/go-tfmp/tfmp"
)

func openBus(adapter int) (tfmp.Transport, func() error, error) {
	return nil, nil, errors.New("i2c bus access requires linux, use --sim on this platform")
}
