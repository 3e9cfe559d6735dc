package ride

import (
	"context"
	"errors"
	"math"
	"sync"
)

type watcher struct {
	onFix   func(Fix)
	onError func(error)
}

type fakeSensor struct {
	mu           sync.Mutex
	next         Subscription
	active       map[Subscription]watcher
	all          map[Subscription]watcher
	subscribes   int
	unsubscribes int
	opts         []WatchOptions
	err          error
}

func newFakeSensor() *fakeSensor {
	return &fakeSensor{active: map[Subscription]watcher{}, all: map[Subscription]watcher{}}
}

func (f *fakeSensor) Subscribe(onFix func(Fix), onError func(error), opts WatchOptions) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes++
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	w := watcher{onFix: onFix, onError: onError}
	f.active[f.next] = w
	f.all[f.next] = w
	f.opts = append(f.opts, opts)
	return f.next, nil
}

func (f *fakeSensor) Unsubscribe(sub Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribes++
	delete(f.active, sub)
}

func (f *fakeSensor) activeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.active)
}

// emit delivers a fix to every live subscription, as a real sensor would.
func (f *fakeSensor) emit(fix Fix) {
	f.mu.Lock()
	var targets []watcher
	for _, w := range f.active {
		targets = append(targets, w)
	}
	f.mu.Unlock()
	for _, w := range targets {
		w.onFix(fix)
	}
}

func (f *fakeSensor) fail(err error) {
	f.mu.Lock()
	var targets []watcher
	for _, w := range f.active {
		targets = append(targets, w)
	}
	f.mu.Unlock()
	for _, w := range targets {
		w.onError(err)
	}
}

// stale returns the fix callback of a subscription even after it was
// cancelled, to model a delivery racing an unsubscribe.
func (f *fakeSensor) stale(sub Subscription) func(Fix) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.all[sub].onFix
}

type fakeStore struct {
	mu      sync.Mutex
	rides   []Record
	appends int
	tried   []string
	err     error
}

func (s *fakeStore) ListRides(context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.rides))
	copy(out, s.rides)
	return out, nil
}

func (s *fakeStore) AppendRide(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends++
	s.tried = append(s.tried, rec.ID)
	if s.err != nil {
		return s.err
	}
	s.rides = append(s.rides, rec)
	return nil
}

var errStore = errors.New("store down")

func fix(lat, lng float64, ts int64, acc float64) Fix {
	return Fix{Latitude: lat, Longitude: lng, Timestamp: ts, Accuracy: acc}
}

func speed(v float64) *float64 { return &v }

func near(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}
