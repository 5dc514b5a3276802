package display

import (
	"bytes"
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

// Terminal puts a tty into raw mode so single key presses can be read.
type Terminal struct {
	fd    int
	state *term.State
}

// OpenTerminal switches f to raw mode. It returns nil and no error when f
// is not a terminal, in which case keys are not read.
func OpenTerminal(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &Terminal{fd: fd, state: state}, nil
}

// Restore returns the terminal to the mode it had before OpenTerminal.
func (t *Terminal) Restore() error {
	if t == nil {
		return nil
	}
	return term.Restore(t.fd, t.state)
}

// RawWriter translates "\n" to "\r\n", since raw mode disables output
// post-processing.
type RawWriter struct {
	W io.Writer
}

func (w RawWriter) Write(p []byte) (int, error) {
	if _, err := w.W.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04
)

// ReadKeys reads single key presses from r until ctx is done, r fails, or
// the user quits. 'r' requests a refresh; 'q', Ctrl-C and Ctrl-D call quit.
func ReadKeys(ctx context.Context, r io.Reader, loop *Loop, quit func()) {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, key := range buf[:n] {
			switch key {
			case 'r', 'R':
				loop.Refresh()
			case 'q', 'Q', keyCtrlC, keyCtrlD:
				quit()
				return
			}
		}
		if err != nil || ctx.Err() != nil {
			return
		}
	}
}
