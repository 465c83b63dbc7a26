package utils

import (
	"context"
	"time"

	"go.viam.com/pano/logging"
)

var (
	slowLoggerFirstInterval = 2 * time.Second
	slowLoggerInterval      = 5 * time.Second
)

// SlowLogger starts a goroutine that logs a warning periodically until the returned function is
// called or the context is done. Call the returned function once the slow operation finishes; it
// returns after the goroutine has exited.
func SlowLogger(ctx context.Context, msg, fieldName, fieldVal string, logger logging.Logger) func() {
	slowTicker := time.NewTicker(slowLoggerFirstInterval)
	interval := slowLoggerInterval
	firstTick := true

	ctxWithCancel, cancel := context.WithCancel(ctx)
	startTime := time.Now()
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case <-slowTicker.C:
				elapsed := time.Since(startTime).Round(time.Millisecond).String()
				logger.Warnw(msg, fieldName, fieldVal, "time_elapsed", elapsed)
				if firstTick {
					slowTicker.Reset(interval)
					firstTick = false
				}
			case <-ctxWithCancel.Done():
				return
			}
		}
	}()
	return func() {
		slowTicker.Stop()
		cancel()
		<-exited
	}
}
