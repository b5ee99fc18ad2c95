package service

import "context"

// Locker grants mutual exclusion per key. Acquire waits until the lock is
// held or ctx is done; the returned release func must be called once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
