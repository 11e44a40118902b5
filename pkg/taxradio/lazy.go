package taxradio

import "sync"

// lazy computes a value once on first successful access. Failures are not
// cached so a cancelled request does not poison later renders.
type lazy[T any] struct {
	mu    sync.Mutex
	done  bool
	value T
}

func (l *lazy[T]) get(compute func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.value, nil
	}
	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	l.value = value
	l.done = true
	return value, nil
}
