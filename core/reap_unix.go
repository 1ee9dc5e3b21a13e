//go:build unix

package core

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

const reapPollInterval = 10 * time.Millisecond

// reapAll waits for every remaining child of the process until the kernel
// reports there are none left or ctx is done.
func reapAll(ctx context.Context) {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			// ECHILD, nothing left to wait for.
			return
		case pid > 0:
			continue
		}

		// Children remain but none have exited yet.
		select {
		case <-ctx.Done():
			return
		case <-time.After(reapPollInterval):
		}
	}
}
