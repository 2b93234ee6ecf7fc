package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusRegister(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		f := NewFocusRegister()

		id, ok, version := f.Get()
		assert.Empty(t, id)
		assert.False(t, ok)
		assert.Equal(t, uint64(0), version)
	})

	t.Run("set advances version", func(t *testing.T) {
		f := NewFocusRegister()
		f.Set("abc")

		id, ok, version := f.Get()
		assert.Equal(t, "abc", id)
		assert.True(t, ok)
		assert.Equal(t, uint64(1), version)
	})

	t.Run("setting the same id is a no-op", func(t *testing.T) {
		f := NewFocusRegister()
		f.Set("abc")
		f.Set("abc")

		_, _, version := f.Get()
		assert.Equal(t, uint64(1), version)
	})

	t.Run("clear drops focus and advances version", func(t *testing.T) {
		f := NewFocusRegister()
		f.Set("abc")
		f.Clear()

		_, ok, version := f.Get()
		assert.False(t, ok)
		assert.Equal(t, uint64(2), version)

		// Clearing an empty register changes nothing.
		f.Clear()
		_, _, version = f.Get()
		assert.Equal(t, uint64(2), version)
	})

	t.Run("changed compares against an observed version", func(t *testing.T) {
		f := NewFocusRegister()
		_, _, version := f.Get()

		assert.False(t, f.Changed(version))
		f.Set("abc")
		assert.True(t, f.Changed(version))
	})
}

func TestFocusWait(t *testing.T) {
	t.Run("returns immediately when already changed", func(t *testing.T) {
		f := NewFocusRegister()
		f.Set("abc")

		id, ok, version, err := f.Wait(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, "abc", id)
		assert.True(t, ok)
		assert.Equal(t, uint64(1), version)
	})

	t.Run("wakes on set", func(t *testing.T) {
		f := NewFocusRegister()

		done := make(chan string, 1)
		go func() {
			id, _, _, err := f.Wait(context.Background(), 0)
			if err == nil {
				done <- id
			}
		}()

		time.Sleep(20 * time.Millisecond)
		f.Set("abc")

		select {
		case id := <-done:
			assert.Equal(t, "abc", id)
		case <-time.After(2 * time.Second):
			t.Fatal("Wait did not wake on Set")
		}
	})

	t.Run("returns on cancel", func(t *testing.T) {
		f := NewFocusRegister()
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			_, _, _, err := f.Wait(ctx, 0)
			done <- err
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Wait did not return on cancel")
		}
	})

	t.Run("multiple waiters all wake", func(t *testing.T) {
		f := NewFocusRegister()

		const waiters = 5
		done := make(chan struct{}, waiters)
		for i := 0; i < waiters; i++ {
			go func() {
				f.Wait(context.Background(), 0)
				done <- struct{}{}
			}()
		}

		time.Sleep(20 * time.Millisecond)
		f.Set("abc")

		for i := 0; i < waiters; i++ {
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("waiter did not wake")
			}
		}
	})
}

func TestRefreshSignal(t *testing.T) {
	t.Run("trigger never blocks", func(t *testing.T) {
		s := NewRefreshSignal()
		for i := 0; i < 100; i++ {
			s.Trigger()
		}
	})

	t.Run("triggers coalesce into one wakeup", func(t *testing.T) {
		s := NewRefreshSignal()
		s.Trigger()
		s.Trigger()
		s.Trigger()

		<-s.C()
		select {
		case <-s.C():
			t.Fatal("coalesced triggers produced a second wakeup")
		default:
		}
	})
}
