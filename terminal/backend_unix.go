//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// pollSlice bounds a single poll(2) so a SIGWINCH delivered to another thread is noticed promptly
const pollSlice = 50 * time.Millisecond

type unixBackend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State

	sigCh   chan os.Signal
	resized bool
	buf     []byte
}

func newBackend() Backend {
	return &unixBackend{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
		buf:   make([]byte, 4096),
	}
}

func (b *unixBackend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return fmt.Errorf("stdin is not a terminal")
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	b.oldTerm = old

	b.sigCh = make(chan os.Signal, 1)
	signal.Notify(b.sigCh, syscall.SIGWINCH)
	return nil
}

func (b *unixBackend) Fini() {
	if b.sigCh != nil {
		signal.Stop(b.sigCh)
		b.sigCh = nil
	}
	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *unixBackend) Size() (int, int) {
	ws := b.Winsize()
	return ws.Cols, ws.Rows
}

func (b *unixBackend) Winsize() Winsize {
	ws, err := unix.IoctlGetWinsize(b.outFd, unix.TIOCGWINSZ)
	if err != nil {
		return Winsize{Cols: 80, Rows: 24} // Fallback
	}
	return Winsize{
		Cols:   int(ws.Col),
		Rows:   int(ws.Row),
		PixelW: int(ws.Xpixel),
		PixelH: int(ws.Ypixel),
	}
}

func (b *unixBackend) Write(p []byte) error {
	for len(p) > 0 {
		n, err := b.out.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (b *unixBackend) Read(timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)

	for {
		if b.checkSignal() {
			return nil, nil
		}

		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		slice := min(remaining, pollSlice)
		// Round up so sub-millisecond remainders still sleep instead of spinning
		ms := int((slice + time.Millisecond - 1) / time.Millisecond)

		fds := []unix.PollFd{
			{Fd: int32(b.inFd), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, ms)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return nil, fmt.Errorf("poll stdin: %w", err)
		}

		if n == 0 {
			if time.Now().Before(deadline) {
				continue
			}
			return nil, nil
		}

		rn, err := unix.Read(b.inFd, b.buf)
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if rn == 0 {
			return nil, ErrInputClosed
		}
		return b.buf[:rn], nil
	}
}

func (b *unixBackend) Resized() bool {
	b.checkSignal()
	r := b.resized
	b.resized = false
	return r
}

// checkSignal drains the SIGWINCH channel without blocking
func (b *unixBackend) checkSignal() bool {
	if b.sigCh == nil {
		return b.resized
	}
	select {
	case <-b.sigCh:
		b.resized = true
	default:
	}
	return b.resized
}
