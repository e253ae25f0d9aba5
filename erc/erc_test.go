package erc

import (
	"errors"
	"sync"
	"testing"

	"github.com/rivulet/rivulet/ers"
)

func TestCollector(t *testing.T) {
	t.Run("ZeroValueIsUsable", func(t *testing.T) {
		ec := &Collector{}
		if !ec.Ok() || ec.Resolve() != nil {
			t.Fatal("empty collector should resolve nil")
		}
	})
	t.Run("NilErrorsDropped", func(t *testing.T) {
		ec := &Collector{}
		ec.Push(nil)
		if ec.Len() != 0 {
			t.Fatal("nil should not be collected")
		}
	})
	t.Run("SingleErrorPassesThrough", func(t *testing.T) {
		expected := errors.New("only")
		ec := &Collector{}
		ec.Push(expected)
		if ec.Resolve() != expected {
			t.Fatal(ec.Resolve())
		}
	})
	t.Run("Aggregates", func(t *testing.T) {
		first := errors.New("first")
		second := errors.New("second")

		ec := &Collector{}
		ec.Push(first)
		ec.Push(second)

		err := ec.Resolve()
		if !errors.Is(err, first) || !errors.Is(err, second) {
			t.Fatal(err)
		}
		if ec.Len() != 2 {
			t.Fatal(ec.Len())
		}
	})
	t.Run("ConcurrentPush", func(t *testing.T) {
		ec := &Collector{}
		wg := &sync.WaitGroup{}
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ec.Push(errors.New("worker error"))
			}()
		}
		wg.Wait()

		if ec.Len() != 32 {
			t.Fatal(ec.Len())
		}
	})
	t.Run("Recover", func(t *testing.T) {
		ec := &Collector{}
		func() {
			defer Recover(ec)
			panic("boom")
		}()

		if !errors.Is(ec.Resolve(), ers.ErrRecoveredPanic) {
			t.Fatal(ec.Resolve())
		}
	})
}
