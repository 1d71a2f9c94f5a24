package serialline

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
)

// scriptedPort implements Port. Each complete line written queues the
// scripted reply for that command, which the next reads return.
type scriptedPort struct {
	mu      sync.Mutex
	written bytes.Buffer
	pending bytes.Buffer
	replies map[string][]byte

	writeErr  error
	shortBy   int
	closed    bool
	readCalls int
}

func newScriptedPort() *scriptedPort {
	return &scriptedPort{replies: make(map[string][]byte)}
}

func (p *scriptedPort) reply(cmd string, resp []byte) {
	p.replies[cmd] = resp
}

func (p *scriptedPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errors.New("port closed")
	}
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	n := len(b) - p.shortBy
	p.written.Write(b[:n])
	cmd := strings.TrimRight(string(b[:n]), "\r\n")
	if resp, ok := p.replies[cmd]; ok {
		p.pending.Write(resp)
	}
	return n, nil
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readCalls++
	if p.pending.Len() == 0 {
		return 0, io.EOF
	}
	return p.pending.Read(b)
}

func (p *scriptedPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *scriptedPort) Written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}
