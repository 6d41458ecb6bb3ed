package scoreplay

import "sync"

// Event is a single engine callback stream. Handlers are registered with On
// and removed with the returned off function; calling off more than once is a
// no-op. Emit may be called from a different goroutine than On/Off, as real
// engines deliver callbacks from their own worker threads.
type Event[T any] struct {
	mu       sync.Mutex
	handlers map[int]func(T)
	order    []int
	nextID   int
}

// On registers a handler and returns the function that unsubscribes it.
func (e *Event[T]) On(handler func(T)) (off func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[int]func(T))
	}
	id := e.nextID
	e.nextID++
	e.handlers[id] = handler
	e.order = append(e.order, id)
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.handlers[id]; !ok {
			return // already unsubscribed
		}
		delete(e.handlers, id)
		for i, v := range e.order {
			if v == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
}

// Emit calls all registered handlers in subscription order.
func (e *Event[T]) Emit(value T) {
	e.mu.Lock()
	handlers := make([]func(T), 0, len(e.order))
	for _, id := range e.order {
		handlers = append(handlers, e.handlers[id])
	}
	e.mu.Unlock()
	for _, h := range handlers {
		h(value)
	}
}

// HandlerCount returns the number of currently registered handlers.
func (e *Event[T]) HandlerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}
