// Package stream provides the body of a request as a single-shot push stream. The body is
// retrieved from the native request at once and pushed in one piece, followed by the end
// of the stream, or an error if the retrieval failed.
package stream

import (
	"io"
	"sync"
)

type Event uint8

const (
	Data Event = iota
	End
	Error
	eventsCount
)

// Listener is notified about stream events. For Data, data is the pushed chunk; for Error,
// err is the failure. Both are zero-values otherwise.
type Listener func(data []byte, err error)

type ListenerID uint64

type listener struct {
	id   ListenerID
	fn   Listener
	once bool
}

// Stream is a push-based byte stream, fed exactly once. It can't be restarted: after the
// data was consumed, every read results in io.EOF.
//
// End and Error events are sticky: listeners attached after the stream has already ended or
// failed are notified immediately. Data is delivered once, to the listeners and pipes attached
// at the moment of the push, or to the first one attached afterwards if nobody consumed it.
type Stream struct {
	mu        sync.Mutex
	done      chan struct{}
	resolved  bool
	buff      []byte
	err       error
	listeners [eventsCount][]listener
	pipes     []io.Writer
	lastID    ListenerID
}

func newStream() *Stream {
	return &Stream{done: make(chan struct{})}
}

// Materialize issues a single call to source in a separate goroutine and pushes its result
// into the returned stream. The stream exists immediately; reads block until source returns.
func Materialize(source func() ([]byte, error)) *Stream {
	s := newStream()
	go func() {
		s.resolve(source())
	}()

	return s
}

// FromBytes returns an already fed stream.
func FromBytes(data []byte) *Stream {
	s := newStream()
	s.resolve(data, nil)
	return s
}

// Failed returns a stream which has already failed with the error.
func Failed(err error) *Stream {
	s := newStream()
	s.resolve(nil, err)
	return s
}

func (s *Stream) resolve(data []byte, err error) {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return
	}

	s.resolved = true

	if err != nil {
		s.err = err
		errListeners := s.take(Error)
		s.mu.Unlock()
		close(s.done)

		for _, l := range errListeners {
			l.fn(nil, err)
		}

		return
	}

	var (
		dataListeners []listener
		pipes         []io.Writer
	)

	s.buff = data
	if len(data) > 0 && (len(s.listeners[Data]) > 0 || len(s.pipes) > 0) {
		dataListeners, pipes = s.take(Data), s.pipes
		s.buff = nil
	}

	endListeners := s.take(End)
	s.mu.Unlock()
	close(s.done)

	emit(dataListeners, pipes, data)

	for _, l := range endListeners {
		l.fn(nil, nil)
	}
}

// take returns all the listeners of the event and leaves only persistent ones registered.
// Must be called with the mutex held.
func (s *Stream) take(event Event) []listener {
	listeners := s.listeners[event]
	var persistent []listener

	for _, l := range listeners {
		if !l.once {
			persistent = append(persistent, l)
		}
	}

	s.listeners[event] = persistent
	return listeners
}

func emit(listeners []listener, pipes []io.Writer, data []byte) {
	for _, l := range listeners {
		l.fn(data, nil)
	}

	for _, w := range pipes {
		// write errors belong to the destination, the stream has nowhere to report them
		_, _ = w.Write(data)
	}
}

// On registers a listener for the event.
func (s *Stream) On(event Event, fn Listener) ListenerID {
	return s.subscribe(event, fn, false)
}

// Once registers a listener, which is removed after being notified for the first time.
func (s *Stream) Once(event Event, fn Listener) ListenerID {
	return s.subscribe(event, fn, true)
}

func (s *Stream) subscribe(event Event, fn Listener, once bool) ListenerID {
	s.mu.Lock()
	s.lastID++
	l := listener{id: s.lastID, fn: fn, once: once}

	if !s.resolved {
		s.listeners[event] = append(s.listeners[event], l)
		s.mu.Unlock()
		return l.id
	}

	var (
		data []byte
		fire bool
	)

	switch event {
	case Data:
		if len(s.buff) > 0 {
			data, s.buff = s.buff, nil
			fire = true
		}
	case End:
		fire = s.err == nil
	case Error:
		fire = s.err != nil
	}

	if !fire || !once {
		s.listeners[event] = append(s.listeners[event], l)
	}

	err := s.err
	s.mu.Unlock()

	if fire {
		fn(data, err)
	}

	return l.id
}

// RemoveListener unregisters the listener. Unknown ids are ignored.
func (s *Stream) RemoveListener(event Event, id ListenerID) *Stream {
	s.mu.Lock()
	defer s.mu.Unlock()

	listeners := s.listeners[event]
	for i, l := range listeners {
		if l.id == id {
			s.listeners[event] = append(listeners[:i:i], listeners[i+1:]...)
			break
		}
	}

	return s
}

// Pipe attaches the writer as a destination for the data. If the data is already available
// and wasn't consumed yet, it's written immediately.
func (s *Stream) Pipe(w io.Writer) *Stream {
	s.mu.Lock()
	if !s.resolved {
		s.pipes = append(s.pipes, w)
		s.mu.Unlock()
		return s
	}

	data := s.buff
	s.buff = nil
	s.mu.Unlock()

	if len(data) > 0 {
		emit(nil, []io.Writer{w}, data)
	}

	return s
}

// Unpipe detaches the writer, previously attached via Pipe.
func (s *Stream) Unpipe(w io.Writer) *Stream {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, pipe := range s.pipes {
		if pipe == w {
			s.pipes = append(s.pipes[:i:i], s.pipes[i+1:]...)
			break
		}
	}

	return s
}

// Read implements io.Reader. It blocks until the data is available.
func (s *Stream) Read(b []byte) (n int, err error) {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}

	if len(s.buff) == 0 {
		return 0, io.EOF
	}

	n = copy(b, s.buff)
	s.buff = s.buff[n:]

	return n, nil
}

// WriteTo implements io.WriterTo. It blocks until the data is available.
func (s *Stream) WriteTo(w io.Writer) (n int64, err error) {
	data, err := s.ReadAll()
	if err != nil || len(data) == 0 {
		return 0, err
	}

	written, err := w.Write(data)
	return int64(written), err
}

// ReadAll waits for the data and consumes everything that's left at once.
func (s *Stream) ReadAll() ([]byte, error) {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	data := s.buff
	s.buff = nil

	return data, nil
}

// Done returns a channel, which is closed as soon as the stream ended or failed.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the error the stream has failed with. It's nil while the stream is pending.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// Len returns the amount of bytes which are available for reading and weren't consumed yet.
func (s *Stream) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.buff)
}
