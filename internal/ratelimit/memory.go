package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	staleAfter      = 3 * time.Minute
	cleanupInterval = time.Minute
)

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// MemoryLimiter is a per-key token bucket kept in process memory. Idle keys
// are dropped by a background sweep until Close is called.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	r        rate.Limit
	burst    int
	stop     chan struct{}
	once     sync.Once
}

// NewMemoryLimiter allows perMinute requests per key per minute, with bursts
// up to the same amount.
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	l := &MemoryLimiter{
		visitors: make(map[string]*visitor),
		r:        rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for key, v := range l.visitors {
				if time.Since(v.seen) > staleAfter {
					delete(l.visitors, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *MemoryLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.visitors[key]; ok {
		v.seen = time.Now()
		return v.lim
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.visitors[key] = &visitor{lim: lim, seen: time.Now()}
	return lim
}

// Allow reports whether key has a token available and consumes it.
func (l *MemoryLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}
	return l.get(key).Allow()
}

// Close stops the background sweep.
func (l *MemoryLimiter) Close() error {
	l.once.Do(func() { close(l.stop) })
	return nil
}
