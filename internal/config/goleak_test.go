package config

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures Watch's fsnotify goroutine does not leak across the
// package's tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}
