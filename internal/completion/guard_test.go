package completion

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []error
}

func (r *recorder) next(err error) {
	r.mu.Lock()
	r.calls = append(r.calls, err)
	r.mu.Unlock()
}

func TestGuard(t *testing.T) {
	t.Run("finalize once", func(t *testing.T) {
		rec := new(recorder)
		g := New(rec.next)
		var executed int

		ok, _ := g.Finalize("send", func() error {
			executed++
			return nil
		})
		require.True(t, ok)

		ok, _ = g.Finalize("json", func() error {
			executed++
			return nil
		})
		require.False(t, ok)
		require.Equal(t, 1, executed)
		require.True(t, g.Sent())
		require.Equal(t, []error{nil}, rec.calls)
	})

	t.Run("mutate after sent is dropped", func(t *testing.T) {
		g := New(func(error) {})
		var suppressed []string
		g.OnSuppressed(func(op string) {
			suppressed = append(suppressed, op)
		})

		require.True(t, g.Mutate("set", func() {}))
		g.Finalize("send", func() error { return nil })
		require.False(t, g.Mutate("set", func() {
			t.Fatal("must not be called")
		}))
		require.Equal(t, []string{"set"}, suppressed)
	})

	t.Run("finalize returns native error", func(t *testing.T) {
		g := New(func(error) {})
		wantErr := errors.New("broken pipe")
		ok, err := g.Finalize("send", func() error {
			return wantErr
		})
		require.True(t, ok)
		require.ErrorIs(t, err, wantErr)
	})

	t.Run("continue once", func(t *testing.T) {
		rec := new(recorder)
		g := New(rec.next)
		first := errors.New("first")

		require.True(t, g.Continue(first))
		require.False(t, g.Continue(nil))
		require.False(t, g.Continue(errors.New("second")))
		require.True(t, g.Continued())
		require.Equal(t, []error{first}, rec.calls)
	})

	t.Run("finalize while reporting carries the failure", func(t *testing.T) {
		rec := new(recorder)
		g := New(rec.next)
		boom := errors.New("boom")

		g.Report(boom)
		g.Finalize("json", func() error { return nil })
		require.Equal(t, []error{boom}, rec.calls)
	})

	t.Run("fail without error path continues", func(t *testing.T) {
		rec := new(recorder)
		g := New(rec.next)
		boom := errors.New("boom")

		g.Fail(boom)
		require.Equal(t, []error{boom}, rec.calls)
	})

	t.Run("fail uses installed error path", func(t *testing.T) {
		g := New(func(error) {})
		var got error
		g.OnFailure(func(err error) {
			got = err
		})

		boom := errors.New("boom")
		g.Fail(boom)
		require.Equal(t, boom, got)
		require.False(t, g.Continued())
	})

	t.Run("concurrent", func(t *testing.T) {
		rec := new(recorder)
		g := New(rec.next)
		var wg sync.WaitGroup

		for i := range 64 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if i%2 == 0 {
					g.Finalize("send", func() error { return nil })
				} else {
					g.Continue(nil)
				}
			}()
		}

		wg.Wait()
		require.Len(t, rec.calls, 1)
	})
}

func TestSeal(t *testing.T) {
	rec := new(recorder)
	g := New(rec.next)

	ok, err := g.Seal("send-file", func() error { return nil })
	require.True(t, ok)
	require.NoError(t, err)
	require.True(t, g.Sent())
	require.False(t, g.Continued())

	ok, _ = g.Finalize("send", func() error { return nil })
	require.False(t, ok)
	require.Empty(t, rec.calls)
}

func TestAbandon(t *testing.T) {
	rec := new(recorder)
	g := New(rec.next)

	require.True(t, g.Abandon())
	require.True(t, g.Sent())
	require.False(t, g.Abandon())

	ok, _ := g.Finalize("send", func() error {
		t.Fatal("must not be called")
		return nil
	})
	require.False(t, ok)
	require.Empty(t, rec.calls, "abandoning doesn't continue the chain")
}
