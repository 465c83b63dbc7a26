package utils

import (
	"context"
	"testing"
	"time"

	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"go.viam.com/pano/logging"
)

func TestSlowLogger(t *testing.T) {
	oldFirst, oldInterval := slowLoggerFirstInterval, slowLoggerInterval
	slowLoggerFirstInterval, slowLoggerInterval = 10*time.Millisecond, 10*time.Millisecond
	defer func() {
		slowLoggerFirstInterval, slowLoggerInterval = oldFirst, oldInterval
	}()

	logger, logs := logging.NewObservedTestLogger(t)
	done := SlowLogger(context.Background(), "still warping", "canvas", "28x18", logger)
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, logs.FilterMessage("still warping").Len(), test.ShouldBeGreaterThanOrEqualTo, 2)
	})
	done()

	entry := logs.FilterMessage("still warping").All()[0]
	test.That(t, entry.ContextMap()["canvas"], test.ShouldEqual, "28x18")
	test.That(t, entry.ContextMap(), test.ShouldContainKey, "time_elapsed")

	// a finished context stops the logger before its first tick
	logger, logs = logging.NewObservedTestLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stop := SlowLogger(ctx, "never", "canvas", "1x1", logger)
	time.Sleep(50 * time.Millisecond)
	stop()
	test.That(t, logs.FilterMessage("never").Len(), test.ShouldEqual, 0)
}
