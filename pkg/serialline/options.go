package serialline

import (
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
)

// Defaults for the MK2 controller kit.
const (
	DefaultBaudRate     = 115200
	DefaultReadyDelay   = 2 * time.Second
	DefaultSettleDelay  = 50 * time.Millisecond
	DefaultDrainTimeout = 10 * time.Millisecond
)

// Options describes how to open and talk to the controller's serial port.
type Options struct {
	Path     string `json:"path"`
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`

	// ReadyDelay is how long to wait after opening for the firmware to boot.
	ReadyDelay time.Duration `json:"ready_delay"`
	// SettleDelay is the fixed wait between writing a command and draining
	// its response. It must exceed the firmware's worst-case latency.
	SettleDelay time.Duration `json:"settle_delay"`
	// DrainTimeout is the per-read timeout used while draining; a read that
	// yields nothing within it ends the response.
	DrainTimeout time.Duration `json:"drain_timeout"`
}

// DefaultOptions returns the options used by the launchers for path.
func DefaultOptions(path string) Options {
	return Options{
		Path:         path,
		BaudRate:     DefaultBaudRate,
		DataBits:     8,
		StopBits:     1,
		Parity:       "N",
		ReadyDelay:   DefaultReadyDelay,
		SettleDelay:  DefaultSettleDelay,
		DrainTimeout: DefaultDrainTimeout,
	}
}

// Normalize validates the options and applies defaults for any unset values.
// Zero delays are kept as zero.
func (o Options) Normalize() (Options, error) {
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultBaudRate
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	parity := strings.TrimSpace(strings.ToUpper(opts.Parity))
	switch parity {
	case "", "N", "NONE":
		parity = "N"
	case "E", "EVEN":
		parity = "E"
	case "O", "ODD":
		parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}
	opts.Parity = parity

	if opts.ReadyDelay < 0 || opts.SettleDelay < 0 || opts.DrainTimeout < 0 {
		return opts, fmt.Errorf("delays must not be negative")
	}

	return opts, nil
}

// SerialMode converts the options into the serial.Mode structure required by
// go.bug.st/serial when opening a port.
func (o Options) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		StopBits: serial.OneStopBit,
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	switch opts.Parity {
	case "N":
		mode.Parity = serial.NoParity
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}

	return mode, nil
}
