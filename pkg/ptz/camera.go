package ptz

import (
	"log/slog"

	"github.com/teslashibe/go-ptz/internal/log"
)

// Camera issues semantic operations to the controller through a Sender.
type Camera struct {
	ch  Sender
	log *slog.Logger
}

// NewCamera creates a camera bound to ch.
func NewCamera(ch Sender, logger *slog.Logger) *Camera {
	return &Camera{
		ch:  ch,
		log: log.Component(logger, "ptz"),
	}
}

// Do sends every line of cmd in order and returns the responses. Lines that
// could not be sent contribute an empty response.
func (c *Camera) Do(cmd Command) []string {
	lines := cmd.Lines()
	if lines == nil {
		c.log.Warn("no protocol mapping", "op", cmd.Op)
		return nil
	}

	c.log.Debug("command", "cmd", cmd.String())
	responses := make([]string, 0, len(lines))
	for _, line := range lines {
		resp, _ := c.ch.Send(line)
		responses = append(responses, resp)
	}
	return responses
}

// WakeUp brings the controller out of standby and turns IR off.
func (c *Camera) WakeUp() { c.Do(WakeUp) }

// Autofocus runs the firmware's own focus routine.
func (c *Camera) Autofocus() { c.Do(Autofocus) }

// SetZoom moves the zoom axis to v.
func (c *Camera) SetZoom(v int) { c.Do(SetZoom(v)) }

// SetFocus moves the focus axis to v.
func (c *Camera) SetFocus(v int) { c.Do(SetFocus(v)) }

func (c *Camera) IROn()  { c.Do(IROn) }
func (c *Camera) IROff() { c.Do(IROff) }

// ModeDay switches to day exposure with IR off.
func (c *Camera) ModeDay() { c.Do(ModeDay) }

// ModeNight switches to night exposure with IR on.
func (c *Camera) ModeNight() { c.Do(ModeNight) }

// Pan passes v to the pan axis as is. The tracker feeds it per-cycle deltas.
func (c *Camera) Pan(v int) { c.Do(Pan(v)) }

// Tilt passes v to the tilt axis as is.
func (c *Camera) Tilt(v int) { c.Do(Tilt(v)) }
