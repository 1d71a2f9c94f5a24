// Package serialline implements the request/response channel to the camera's
// actuator firmware over a serial line.
//
// The firmware has no response delimiter and no ready signal, so every
// exchange is timing based: write the command, wait a fixed settle interval,
// then drain whatever bytes have arrived. A channel that failed to open is
// permanently closed and turns every send into a no-op.
package serialline

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-ptz/internal/log"
)

// Terminator is appended to every outbound command.
const Terminator = "\r\n"

// drainReads bounds how long one drain may take, in multiples of the read
// timeout. A device that never goes quiet is cut off there.
const (
	drainReads    = 100
	minDrainLimit = time.Second
)

// ErrShortWrite is recorded when the port accepted fewer bytes than sent.
var ErrShortWrite = errors.New("short write to serial port")

// State is the connection state of a Channel.
type State int32

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Exchange is one command and the response drained for it.
type Exchange struct {
	Sent     string    `json:"sent"`
	Received string    `json:"received"`
	OK       bool      `json:"ok"`
	At       time.Time `json:"at"`
}

// Stats are running counters for a Channel.
type Stats struct {
	Sent     uint64 `json:"sent"`
	Dropped  uint64 `json:"dropped"`
	BytesOut uint64 `json:"bytes_out"`
	BytesIn  uint64 `json:"bytes_in"`
}

// Channel is a synchronous command channel. It is owned by a single
// goroutine; Send is not safe for concurrent use.
type Channel struct {
	port  Port
	opts  Options
	state atomic.Int32
	err   error
	log   *slog.Logger

	// sleep is swapped out in tests.
	sleep func(time.Duration)
	tap   func(Exchange)

	sent     atomic.Uint64
	dropped  atomic.Uint64
	bytesOut atomic.Uint64
	bytesIn  atomic.Uint64
}

// Open opens the serial port described by opts. It never fails: on error the
// cause is logged and recorded, and the returned channel is Closed.
func Open(opts Options, logger *slog.Logger) *Channel {
	return OpenWith(OpenSerial, opts, logger)
}

// OpenWith is Open with an injected port opener.
func OpenWith(opener Opener, opts Options, logger *slog.Logger) *Channel {
	c := &Channel{
		opts:  opts,
		log:   log.Component(logger, "serial").With("port", opts.Path),
		sleep: time.Sleep,
	}

	normalized, err := opts.Normalize()
	if err != nil {
		c.fail(err)
		return c
	}
	c.opts = normalized

	port, err := opener(normalized)
	if err != nil {
		c.fail(err)
		return c
	}
	c.port = port
	c.state.Store(int32(Open))

	// Wait for controller to be ready
	c.sleep(normalized.ReadyDelay)
	c.log.Info("serial connection established", "baud", normalized.BaudRate)
	return c
}

// NewChannel wraps an already open port. No ready delay is applied.
func NewChannel(port Port, opts Options, logger *slog.Logger) *Channel {
	return OpenWith(func(Options) (Port, error) { return port, nil }, withoutReady(opts), logger)
}

func withoutReady(opts Options) Options {
	opts.ReadyDelay = 0
	return opts
}

func (c *Channel) fail(err error) {
	c.err = err
	c.state.Store(int32(Closed))
	c.log.Error("failed to open serial port", "error", err)
}

// State reports whether the channel is usable.
func (c *Channel) State() State {
	return State(c.state.Load())
}

// Err returns the reason the channel is closed, if it failed to open.
func (c *Channel) Err() error {
	return c.err
}

// Stats returns a snapshot of the channel counters.
func (c *Channel) Stats() Stats {
	return Stats{
		Sent:     c.sent.Load(),
		Dropped:  c.dropped.Load(),
		BytesOut: c.bytesOut.Load(),
		BytesIn:  c.bytesIn.Load(),
	}
}

// SetTap registers fn to observe every exchange. Set it before the owning
// loop starts.
func (c *Channel) SetTap(fn func(Exchange)) {
	c.tap = fn
}

// Send writes cmd followed by the line terminator, waits the settle delay and
// returns the trimmed response. The bool is false when nothing was sent.
func (c *Channel) Send(cmd string) (string, bool) {
	cmd = strings.TrimSpace(cmd)

	if c.State() != Open {
		c.dropped.Add(1)
		c.log.Error("serial port not open", "cmd", cmd)
		c.notify(Exchange{Sent: cmd})
		return "", false
	}

	line := cmd + Terminator
	n, err := c.port.Write([]byte(line))
	if err == nil && n != len(line) {
		err = ErrShortWrite
	}
	if err != nil {
		c.dropped.Add(1)
		c.log.Error("serial write failed", "cmd", cmd, "error", err)
		c.notify(Exchange{Sent: cmd})
		return "", false
	}
	c.sent.Add(1)
	c.bytesOut.Add(uint64(n))
	c.log.Debug(">>> "+cmd)

	c.sleep(c.opts.SettleDelay)

	raw := c.drain()
	c.bytesIn.Add(uint64(len(raw)))
	resp := strings.TrimSpace(strings.ToValidUTF8(string(raw), ""))
	c.log.Debug("<<< " + resp)

	c.notify(Exchange{Sent: cmd, Received: resp, OK: true})
	return resp, true
}

// drain reads until the port has nothing more to give. Every available byte
// is consumed so nothing carries over into the next exchange.
func (c *Channel) drain() []byte {
	var out []byte
	buf := make([]byte, 256)
	deadline := time.Now().Add(c.drainLimit())
	for {
		n, err := c.port.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.Debug("serial read ended", "error", err)
			}
			return out
		}
		if n == 0 {
			return out
		}
		if time.Now().After(deadline) {
			c.log.Warn("serial drain cut off, device still sending", "bytes", len(out))
			return out
		}
	}
}

func (c *Channel) drainLimit() time.Duration {
	return max(drainReads*c.opts.DrainTimeout, minDrainLimit)
}

func (c *Channel) notify(ex Exchange) {
	if c.tap == nil {
		return
	}
	ex.At = time.Now()
	c.tap(ex)
}

// Close releases the port. The channel is Closed afterwards.
func (c *Channel) Close() error {
	if State(c.state.Swap(int32(Closed))) != Open {
		return nil
	}
	return c.port.Close()
}
