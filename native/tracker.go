package native

import "sync"

// Tracked is implemented by native requests whose owner must wait for background body reads
// to finish before the request is released back to the server.
type Tracked interface {
	Track(done <-chan struct{})
}

// Tracker collects pending body reads. The zero value is ready to use.
type Tracker struct {
	mu      sync.Mutex
	pending []<-chan struct{}
}

// Track registers a read in flight. The channel must be closed once the read is over.
func (t *Tracker) Track(done <-chan struct{}) {
	t.mu.Lock()
	t.pending = append(t.pending, done)
	t.mu.Unlock()
}

// Wait blocks until every tracked read is over. It may be called any number of times.
func (t *Tracker) Wait() {
	t.mu.Lock()
	pending := t.pending
	t.mu.Unlock()

	for _, done := range pending {
		<-done
	}
}
