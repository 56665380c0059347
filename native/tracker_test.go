package native_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/indigo-web/shim/native"
	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	t.Run("nothing tracked", func(t *testing.T) {
		var tracker native.Tracker
		tracker.Wait()
	})

	t.Run("waits for every read", func(t *testing.T) {
		var (
			tracker  native.Tracker
			finished atomic.Int32
		)

		for range 3 {
			done := make(chan struct{})
			tracker.Track(done)

			go func() {
				time.Sleep(5 * time.Millisecond)
				finished.Add(1)
				close(done)
			}()
		}

		tracker.Wait()
		require.EqualValues(t, 3, finished.Load())
		// repeated calls return immediately
		tracker.Wait()
	})
}
