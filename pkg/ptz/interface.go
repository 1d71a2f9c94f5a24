// Package ptz speaks the C1 PRO / MK2 controller command vocabulary.
//
// Each semantic operation is a short fixed script of text lines sent in
// order through a Sender. Nothing is retried.
//
// Consumers should depend only on the small interfaces they use.
package ptz

// Sender delivers one protocol line and returns the response, or false when
// the line could not be sent.
type Sender interface {
	Send(cmd string) (string, bool)
}

// PanTilter moves the pan and tilt axes.
type PanTilter interface {
	Pan(v int)
	Tilt(v int)
}

// Zoomer drives the zoom axis.
type Zoomer interface {
	SetZoom(v int)
}

// Focuser drives the focus axis.
type Focuser interface {
	SetFocus(v int)
}

// Executor runs arbitrary semantic commands.
type Executor interface {
	Do(cmd Command) []string
}

// Controller is the composite interface for full camera control.
type Controller interface {
	PanTilter
	Zoomer
	Focuser
	Executor
	WakeUp()
	Autofocus()
	IROn()
	IROff()
	ModeDay()
	ModeNight()
}

// Ensure Camera implements Controller
var _ Controller = (*Camera)(nil)
