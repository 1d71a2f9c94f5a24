package serialline

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-ptz/internal/log"
)

func testOptions() Options {
	opts := DefaultOptions("/dev/null")
	opts.ReadyDelay = 0
	opts.SettleDelay = 0
	return opts
}

func openScripted(t *testing.T) (*Channel, *scriptedPort) {
	t.Helper()
	port := newScriptedPort()
	ch := OpenWith(func(Options) (Port, error) { return port, nil }, testOptions(), log.Discard())
	require.Equal(t, Open, ch.State())
	return ch, port
}

func TestSend_AppendsTerminatorOnce(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{name: "plain", cmd: "M238", want: "M238\r\n"},
		{name: "trailing newline", cmd: "M238\n", want: "M238\r\n"},
		{name: "trailing crlf", cmd: "M238\r\n", want: "M238\r\n"},
		{name: "surrounding spaces", cmd: "  G0 A100  ", want: "G0 A100\r\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ch, port := openScripted(t)
			_, ok := ch.Send(tc.cmd)
			require.True(t, ok)
			assert.Equal(t, tc.want, port.Written())
		})
	}
}

func TestSend_ReturnsTrimmedResponse(t *testing.T) {
	ch, port := openScripted(t)
	port.reply("version", []byte("  MK2 v1.4\r\nok\r\n"))

	resp, ok := ch.Send("version")
	require.True(t, ok)
	assert.Equal(t, "MK2 v1.4\r\nok", resp)
}

func TestSend_DropsInvalidBytes(t *testing.T) {
	ch, port := openScripted(t)
	port.reply("M8", []byte{'o', 0xff, 'k', 0xfe, '\n'})

	resp, ok := ch.Send("M8")
	require.True(t, ok)
	assert.Equal(t, "ok", resp)
}

func TestSend_DrainsLongResponseCompletely(t *testing.T) {
	ch, port := openScripted(t)
	payload := strings.Repeat("x", 5000)
	port.reply("version", []byte(payload+"\r\n"))

	resp, ok := ch.Send("version")
	require.True(t, ok)
	assert.Equal(t, payload, resp)

	resp, ok = ch.Send("M8")
	require.True(t, ok)
	assert.Empty(t, resp, "leftover bytes leaked into the next exchange")
	assert.Equal(t, uint64(5002), ch.Stats().BytesIn)
}

func TestSend_EmptyResponse(t *testing.T) {
	ch, _ := openScripted(t)

	resp, ok := ch.Send("M0 X")
	require.True(t, ok)
	assert.Empty(t, resp)
}

func TestSend_WaitsSettleDelay(t *testing.T) {
	ch, _ := openScripted(t)
	ch.opts.SettleDelay = 50 * time.Millisecond

	var slept []time.Duration
	ch.sleep = func(d time.Duration) { slept = append(slept, d) }

	ch.Send("M238")
	ch.Send("M8")
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond}, slept)
}

func TestSend_ClosedChannelIsNoop(t *testing.T) {
	openErr := errors.New("no such device")
	ch := OpenWith(func(Options) (Port, error) { return nil, openErr }, testOptions(), log.Discard())

	require.Equal(t, Closed, ch.State())
	assert.ErrorIs(t, ch.Err(), openErr)

	for i := 0; i < 3; i++ {
		resp, ok := ch.Send("M238")
		assert.False(t, ok)
		assert.Empty(t, resp)
	}
	assert.Equal(t, uint64(3), ch.Stats().Dropped)
	assert.Zero(t, ch.Stats().BytesOut)
}

func TestSend_InvalidOptionsClose(t *testing.T) {
	opts := testOptions()
	opts.Parity = "X"
	called := false
	ch := OpenWith(func(Options) (Port, error) { called = true; return newScriptedPort(), nil }, opts, log.Discard())

	assert.False(t, called)
	assert.Equal(t, Closed, ch.State())
	assert.Error(t, ch.Err())
}

func TestSend_WriteErrorKeepsChannelOpen(t *testing.T) {
	ch, port := openScripted(t)
	port.writeErr = errors.New("i/o error")

	_, ok := ch.Send("M238")
	assert.False(t, ok)
	assert.Equal(t, Open, ch.State())

	port.writeErr = nil
	_, ok = ch.Send("M238")
	assert.True(t, ok)
}

func TestSend_ShortWrite(t *testing.T) {
	ch, port := openScripted(t)
	port.shortBy = 1

	_, ok := ch.Send("M238")
	assert.False(t, ok)
	assert.Equal(t, uint64(1), ch.Stats().Dropped)
	assert.Zero(t, port.readCalls)
}

func TestSend_TapSeesEveryExchange(t *testing.T) {
	ch, port := openScripted(t)
	port.reply("version", []byte("v1\n"))

	var seen []Exchange
	ch.SetTap(func(ex Exchange) { seen = append(seen, ex) })

	ch.Send("version")
	ch.Send("M8")

	require.Len(t, seen, 2)
	assert.Equal(t, "version", seen[0].Sent)
	assert.Equal(t, "v1", seen[0].Received)
	assert.True(t, seen[0].OK)
	assert.Equal(t, "M8", seen[1].Sent)
	assert.False(t, seen[1].At.IsZero())
}

func TestStats(t *testing.T) {
	ch, port := openScripted(t)
	port.reply("version", []byte("v1\n"))

	ch.Send("version")

	st := ch.Stats()
	assert.Equal(t, uint64(1), st.Sent)
	assert.Equal(t, uint64(len("version\r\n")), st.BytesOut)
	assert.Equal(t, uint64(3), st.BytesIn)
}

func TestClose(t *testing.T) {
	ch, port := openScripted(t)

	require.NoError(t, ch.Close())
	assert.True(t, port.closed)
	assert.Equal(t, Closed, ch.State())

	_, ok := ch.Send("M238")
	assert.False(t, ok)
	require.NoError(t, ch.Close())
}

func TestNewChannel(t *testing.T) {
	port := newScriptedPort()
	ch := NewChannel(port, DefaultOptions("loop"), log.Discard())
	ch.sleep = func(time.Duration) {}

	_, ok := ch.Send("M242 A0")
	assert.True(t, ok)
	assert.Equal(t, "M242 A0\r\n", port.Written())
}
