// Package sensor provides location sources for ride sessions.
package sensor

import (
	"errors"
	"sync"
	"time"

	"backend-ridetrack/internal/ride"
)

// ErrTimeout is reported to a watcher when no fix arrives within its
// acquisition timeout.
var ErrTimeout = errors.New("position acquisition timed out")

const watchBuffer = 64

// Feed is a sensor whose fixes are pushed in by the rider's device.
type Feed struct {
	mu       sync.Mutex
	next     ride.Subscription
	watchers map[ride.Subscription]*watcher
	last     *ride.Fix
	lastAt   time.Time
	closed   bool
	now      func() time.Time
}

type watcher struct {
	fixes   chan ride.Fix
	done    chan struct{}
	once    sync.Once
	onFix   func(ride.Fix)
	onError func(error)
	timeout time.Duration
}

func NewFeed() *Feed {
	return &Feed{
		watchers: map[ride.Subscription]*watcher{},
		now:      time.Now,
	}
}

// Subscribe starts a watcher. Fixes are delivered on the watcher's own
// goroutine in the order they were pushed.
func (f *Feed) Subscribe(onFix func(ride.Fix), onError func(error), opts ride.WatchOptions) (ride.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, ride.ErrSensorUnsupported
	}

	w := &watcher{
		fixes:   make(chan ride.Fix, watchBuffer),
		done:    make(chan struct{}),
		onFix:   onFix,
		onError: onError,
		timeout: opts.Timeout,
	}
	if opts.MaxCachedAge > 0 && f.last != nil && f.now().Sub(f.lastAt) <= opts.MaxCachedAge {
		w.fixes <- *f.last
	}

	f.next++
	f.watchers[f.next] = w
	go w.run()
	return f.next, nil
}

// Unsubscribe stops a watcher. It does not wait for a callback already in
// progress.
func (f *Feed) Unsubscribe(sub ride.Subscription) {
	f.mu.Lock()
	w, ok := f.watchers[sub]
	delete(f.watchers, sub)
	f.mu.Unlock()

	if ok {
		w.stop()
	}
}

// Push hands a fix from the device to every watcher.
func (f *Feed) Push(fix ride.Fix) {
	f.mu.Lock()
	cached := fix
	f.last = &cached
	f.lastAt = f.now()
	targets := make([]*watcher, 0, len(f.watchers))
	for _, w := range f.watchers {
		targets = append(targets, w)
	}
	f.mu.Unlock()

	for _, w := range targets {
		select {
		case w.fixes <- fix:
		case <-w.done:
		}
	}
}

// Watching reports whether any subscription is active.
func (f *Feed) Watching() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers) > 0
}

// Close stops every watcher; later subscribes fail as unsupported.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	watchers := f.watchers
	f.watchers = map[ride.Subscription]*watcher{}
	f.mu.Unlock()

	for _, w := range watchers {
		w.stop()
	}
}

func (w *watcher) stop() {
	w.once.Do(func() { close(w.done) })
}

func (w *watcher) run() {
	var timeout <-chan time.Time
	var timer *time.Timer
	if w.timeout > 0 {
		timer = time.NewTimer(w.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case <-w.done:
			return
		case fix := <-w.fixes:
			select {
			case <-w.done:
				return
			default:
			}
			w.onFix(fix)
			if timer != nil {
				timer.Reset(w.timeout)
			}
		case <-timeout:
			w.onError(ErrTimeout)
			timer.Reset(w.timeout)
		}
	}
}
