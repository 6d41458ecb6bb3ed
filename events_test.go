package scoreplay_test

import (
	"sync"
	"testing"

	"github.com/zazu-22/scoreplay"
)

func TestEventEmitOrder(t *testing.T) {
	var e scoreplay.Event[int]
	var got []int
	e.On(func(v int) { got = append(got, v*10) })
	e.On(func(v int) { got = append(got, v*100) })
	e.Emit(3)
	if len(got) != 2 || got[0] != 30 || got[1] != 300 {
		t.Errorf("handlers should run in subscription order, got %v", got)
	}
}

func TestEventOff(t *testing.T) {
	var e scoreplay.Event[string]
	calls := 0
	off1 := e.On(func(string) { calls++ })
	e.On(func(string) { calls++ })
	if e.HandlerCount() != 2 {
		t.Fatalf("expected 2 handlers, got %d", e.HandlerCount())
	}
	off1()
	off1() // second call should be a no-op, not remove the other handler
	if e.HandlerCount() != 1 {
		t.Fatalf("expected 1 handler after off, got %d", e.HandlerCount())
	}
	e.Emit("x")
	if calls != 1 {
		t.Errorf("only the remaining handler should fire, got %d calls", calls)
	}
}

func TestEventEmitFromAnotherGoroutine(t *testing.T) {
	var e scoreplay.Event[int]
	var mu sync.Mutex
	sum := 0
	off := e.On(func(v int) {
		mu.Lock()
		sum += v
		mu.Unlock()
	})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Emit(1)
		}()
	}
	wg.Wait()
	off()
	e.Emit(100)
	if sum != 10 {
		t.Errorf("expected 10 emits to land, got sum %d", sum)
	}
}
