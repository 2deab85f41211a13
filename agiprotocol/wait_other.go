//go:build !unix

package agiprotocol

import (
	"syscall"
	"time"
)

const pollSupported = false

func pollReadable(syscall.RawConn, time.Duration) error { return nil }
