//go:build unix

package agiprotocol

import (
	"fmt"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const pollSupported = true

// pollReadable waits until the descriptor behind rc is readable, hung up or
// in error, or until timeout expires. An interrupted poll is restarted with
// the full timeout.
func pollReadable(rc syscall.RawConn, timeout time.Duration) error {
	var (
		ready   bool
		pollErr error
	)
	err := rc.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		for {
			n, err := unix.Poll(fds, int(timeout.Milliseconds()))
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				pollErr = err
				return
			}
			ready = n > 0
			return
		}
	})
	if err == nil {
		err = pollErr
	}
	if err != nil {
		return NewConnectionError("poll failed", err)
	}
	if !ready {
		return fmt.Errorf("no header data after %s: %w", timeout, ErrTimeout)
	}
	return nil
}
