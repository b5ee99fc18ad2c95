package keylock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultCleanupInterval is how often unused entries are swept
	DefaultCleanupInterval = 10 * time.Minute

	// DefaultStaleThreshold is how long an entry must be idle before removal
	DefaultStaleThreshold = 10 * time.Minute
)

// =============================================================================
// Types
// =============================================================================

// KeyedMutex serializes work per key inside one process.
//
// Entries are created on demand and swept by a background goroutine once
// they have been idle for the stale threshold. Acquire honours context
// cancellation, so a caller never waits past its deadline.
type KeyedMutex struct {
	log            *logrus.Logger
	entries        sync.Map // map[string]*entry
	staleThreshold time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type entry struct {
	sem      chan struct{}
	lastUsed atomic.Int64 // UnixNano
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a KeyedMutex and starts its cleanup loop. Call Stop on shutdown.
func New(log *logrus.Logger, cleanupInterval, staleThreshold time.Duration) *KeyedMutex {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	if staleThreshold <= 0 {
		staleThreshold = DefaultStaleThreshold
	}

	k := &KeyedMutex{
		log:            log,
		staleThreshold: staleThreshold,
		stopChan:       make(chan struct{}),
	}

	k.wg.Add(1)
	go k.cleanupLoop(cleanupInterval)

	return k
}

// Stop ends the cleanup loop. Safe to call multiple times.
func (k *KeyedMutex) Stop() {
	if k.stopped.CompareAndSwap(false, true) {
		close(k.stopChan)
		k.wg.Wait()
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// Acquire blocks until the lock for key is held or ctx is done.
// The returned release func must be called exactly once.
func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	for {
		release, err := k.lock(ctx, key, k.entry(key))
		if err != nil {
			return nil, err
		}
		if release != nil {
			return release, nil
		}
	}
}

// Len returns the number of tracked keys.
func (k *KeyedMutex) Len() int {
	n := 0
	k.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// =============================================================================
// Private Helper Methods
// =============================================================================

func (k *KeyedMutex) entry(key string) *entry {
	v, _ := k.entries.LoadOrStore(key, &entry{sem: make(chan struct{}, 1)})
	e := v.(*entry)
	e.lastUsed.Store(time.Now().UnixNano())
	return e
}

// lock takes e's semaphore. A nil release with a nil error means sweep
// dropped e from the map before the semaphore was taken, and the caller
// must retry with a fresh entry.
func (k *KeyedMutex) lock(ctx context.Context, key string, e *entry) (func(), error) {
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if current, ok := k.entries.Load(key); !ok || current != e {
		<-e.sem
		return nil, nil
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.lastUsed.Store(time.Now().UnixNano())
			<-e.sem
		})
	}, nil
}

func (k *KeyedMutex) cleanupLoop(interval time.Duration) {
	defer k.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stopChan:
			return
		case <-ticker.C:
			k.sweep(time.Now())
		}
	}
}

// sweep drops idle entries. The idle check happens while holding the entry
// so a concurrent Acquire that refreshed lastUsed keeps it alive.
func (k *KeyedMutex) sweep(now time.Time) int {
	cutoff := now.Add(-k.staleThreshold).UnixNano()
	cleaned := 0

	k.entries.Range(func(key, value any) bool {
		e, ok := value.(*entry)
		if !ok {
			return true
		}

		select {
		case e.sem <- struct{}{}:
			if e.lastUsed.Load() < cutoff {
				k.entries.Delete(key)
				cleaned++
			}
			<-e.sem
		default:
		}
		return true
	})

	if cleaned > 0 && k.log != nil {
		k.log.Debugf("Cleaned up %d stale booking locks", cleaned)
	}
	return cleaned
}
