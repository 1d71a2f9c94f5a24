package ptz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOp is returned when parsing an operation name that has no
// protocol mapping.
var ErrUnknownOp = errors.New("unknown ptz operation")

// Op names a semantic camera operation.
type Op string

const (
	OpPan       Op = "pan"
	OpTilt      Op = "tilt"
	OpZoom      Op = "zoom"
	OpFocus     Op = "focus"
	OpIROn      Op = "ir_on"
	OpIROff     Op = "ir_off"
	OpDay       Op = "day"
	OpNight     Op = "night"
	OpWake      Op = "wake"
	OpAutofocus Op = "autofocus"
)

// Ops lists every operation in a stable order.
var Ops = []Op{OpPan, OpTilt, OpZoom, OpFocus, OpIROn, OpIROff, OpDay, OpNight, OpWake, OpAutofocus}

// HasValue reports whether the operation takes a numeric argument.
func (o Op) HasValue() bool {
	switch o {
	case OpPan, OpTilt, OpZoom, OpFocus:
		return true
	}
	return false
}

// Command is a single semantic directive for the camera.
type Command struct {
	Op    Op  `json:"op"`
	Value int `json:"value,omitempty"`
}

func Pan(v int) Command      { return Command{Op: OpPan, Value: v} }
func Tilt(v int) Command     { return Command{Op: OpTilt, Value: v} }
func SetZoom(v int) Command  { return Command{Op: OpZoom, Value: v} }
func SetFocus(v int) Command { return Command{Op: OpFocus, Value: v} }

var (
	IROn      = Command{Op: OpIROn}
	IROff     = Command{Op: OpIROff}
	ModeDay   = Command{Op: OpDay}
	ModeNight = Command{Op: OpNight}
	WakeUp    = Command{Op: OpWake}
	Autofocus = Command{Op: OpAutofocus}
)

func (c Command) String() string {
	if c.Op.HasValue() {
		return fmt.Sprintf("%s(%d)", c.Op, c.Value)
	}
	return string(c.Op)
}

// Lines returns the protocol lines for c, without terminators, in the order
// they must be sent. Unknown operations yield nil.
func (c Command) Lines() []string {
	switch c.Op {
	case OpWake:
		return append([]string{"M238", "M8", "version"}, IROff.Lines()...)
	case OpAutofocus:
		return []string{"G91", "M246", "M240 A50", "G0 A30000", "M0 A"}
	case OpZoom:
		return axisMove("A", c.Value)
	case OpFocus:
		return axisMove("B", c.Value)
	case OpIROn:
		return []string{"M242 A1"}
	case OpIROff:
		return []string{"M242 A0"}
	case OpDay:
		return append([]string{"M241 A0", "M240 A50", "M250 A10"}, IROff.Lines()...)
	case OpNight:
		return append([]string{"M241 A0", "M240 A5", "M250 A40"}, IROn.Lines()...)
	case OpPan:
		return axisMove("X", c.Value)
	case OpTilt:
		return axisMove("Y", c.Value)
	}
	return nil
}

// axisMove targets an axis then commits the move.
func axisMove(axis string, v int) []string {
	return []string{fmt.Sprintf("G0 %s%d", axis, v), "M0 " + axis}
}

// ParseCommand builds a command from an operation name, as typed on the
// command line or posted to the dashboard. The value is ignored for
// operations that take none.
func ParseCommand(op string, value int) (Command, error) {
	o := Op(strings.ToLower(strings.TrimSpace(op)))
	for _, known := range Ops {
		if o == known {
			if !o.HasValue() {
				value = 0
			}
			return Command{Op: o, Value: value}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownOp, op)
}
