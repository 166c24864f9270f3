// pkg/host/listeners.go
package host

import "sync"

// Listeners is an observer list engines can use to implement the
// OnProgress/OnCompletion registration contract.
type Listeners[T any] struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]func(T)
	order    []int
}

// Add registers fn and returns its subscription
func (l *Listeners[T]) Add(fn func(T)) Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handlers == nil {
		l.handlers = make(map[int]func(T))
	}
	id := l.nextID
	l.nextID++
	l.handlers[id] = fn
	l.order = append(l.order, id)

	return &listenerSubscription[T]{list: l, id: id}
}

// Emit calls every registered handler in registration order.
// Handlers are called without the lock held.
func (l *Listeners[T]) Emit(v T) {
	l.mu.RLock()
	fns := make([]func(T), 0, len(l.order))
	for _, id := range l.order {
		if fn, ok := l.handlers[id]; ok {
			fns = append(fns, fn)
		}
	}
	l.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of registered handlers
func (l *Listeners[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.handlers)
}

// Clear drops every handler
func (l *Listeners[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = nil
	l.order = nil
}

func (l *Listeners[T]) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.handlers[id]; !ok {
		return
	}
	delete(l.handlers, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

type listenerSubscription[T any] struct {
	list *Listeners[T]
	id   int
	once sync.Once
}

func (s *listenerSubscription[T]) Unsubscribe() {
	s.once.Do(func() { s.list.remove(s.id) })
}
