package serialline

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Port is the minimal byte stream the channel needs.
// This abstraction enables unit testing without real serial hardware.
type Port interface {
	io.ReadWriteCloser
}

// Opener opens the port described by opts.
type Opener func(opts Options) (Port, error)

// OpenSerial opens a real serial port through go.bug.st/serial and configures
// its read timeout for draining.
func OpenSerial(opts Options) (Port, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(opts.Path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Path, err)
	}

	if opts.DrainTimeout > 0 {
		if err := port.SetReadTimeout(opts.DrainTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
	}

	return port, nil
}
