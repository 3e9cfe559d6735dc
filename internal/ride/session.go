package ride

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MinAverageDuration is the shortest ride for which an average speed is
// computed. Shorter rides report an average of zero.
const MinAverageDuration = time.Second

type Option func(*Session)

// WithUpdateHandler registers a callback that receives a snapshot after
// every accepted fix. It runs outside the session lock.
func WithUpdateHandler(fn func(Snapshot)) Option {
	return func(s *Session) { s.onUpdate = fn }
}

// WithErrorHandler registers a callback for sensor delivery errors.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Session) { s.onError = fn }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

func WithWatchOptions(opts WatchOptions) Option {
	return func(s *Session) { s.watch = opts }
}

// watch is the subscription currently feeding the session. gen ties
// callbacks to the subscribe call that created them.
type watch struct {
	sub Subscription
	gen uint64
}

// Session records one ride at a time: it owns the sensor subscription and
// every accumulated value, and turns them into a Record on Stop.
type Session struct {
	sensor   Sensor
	store    Store
	watch    WatchOptions
	onUpdate func(Snapshot)
	onError  func(error)
	newID    func() string

	mu         sync.Mutex
	state      State
	active     *watch
	gen        uint64
	distanceKm float64
	positions  []Fix
	window     Smoother
	speedKmh   float64
	rideID     string
}

func NewSession(sensor Sensor, store Store, opts ...Option) *Session {
	s := &Session{
		sensor: sensor,
		store:  store,
		watch:  DefaultWatchOptions,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins tracking from Idle, or resumes from Paused without touching
// the accumulated totals.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.Start()
	if err != nil {
		return err
	}
	if s.sensor == nil {
		return ErrSensorUnsupported
	}
	if s.state == Idle {
		s.resetLocked()
	}

	s.gen++
	gen := s.gen
	sub, err := s.sensor.Subscribe(
		func(fix Fix) { s.handleFix(gen, fix) },
		func(err error) { s.handleError(gen, err) },
		s.watch,
	)
	if err != nil {
		return err
	}
	s.active = &watch{sub: sub, gen: gen}
	s.state = next
	return nil
}

// Pause detaches the sensor and keeps everything recorded so far. Fixes
// delivered after Pause returns are dropped.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.state.Pause()
	if !ok {
		return
	}
	s.unsubscribeLocked()
	s.state = next
}

// Stop detaches the sensor, finalizes the ride and appends it to the store.
// A store failure leaves the ride Paused with its data intact so Stop can
// be retried; retries reuse the ride ID of the first attempt.
func (s *Session) Stop(ctx context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.Stop()
	if err != nil {
		return Record{}, err
	}
	s.unsubscribeLocked()

	if len(s.positions) < 2 {
		s.resetLocked()
		s.state = next
		return Record{}, ErrRideTooShort
	}

	if s.rideID == "" {
		s.rideID = s.newID()
	}
	rec := s.recordLocked()
	if err := s.store.AppendRide(ctx, rec); err != nil {
		s.state = Paused
		return Record{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	s.resetLocked()
	s.state = next
	return rec, nil
}

// Discard drops the current ride without persisting it.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unsubscribeLocked()
	s.resetLocked()
	s.state = Idle
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// History lists the rides already persisted through the session's store.
func (s *Session) History(ctx context.Context) ([]Record, error) {
	return s.store.ListRides(ctx)
}

func (s *Session) handleFix(gen uint64, fix Fix) {
	s.mu.Lock()
	if !s.liveLocked(gen) || !Accept(fix) {
		s.mu.Unlock()
		return
	}

	var prev *Fix
	if n := len(s.positions); n > 0 {
		last := s.positions[n-1]
		prev = &last
		s.distanceKm += DistanceKm(last, fix)
	}
	s.positions = append(s.positions, fix)
	s.speedKmh = s.window.Push(InstantaneousSpeedKmh(fix, prev))

	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
}

func (s *Session) handleError(gen uint64, err error) {
	s.mu.Lock()
	live := s.liveLocked(gen)
	s.mu.Unlock()

	if live && s.onError != nil {
		s.onError(fmt.Errorf("%w: %w", ErrSensorDelivery, err))
	}
}

func (s *Session) liveLocked(gen uint64) bool {
	return s.state == Tracking && s.active != nil && s.active.gen == gen
}

func (s *Session) unsubscribeLocked() {
	if s.active == nil {
		return
	}
	s.sensor.Unsubscribe(s.active.sub)
	s.active = nil
}

func (s *Session) resetLocked() {
	s.distanceKm = 0
	s.positions = nil
	s.window.Reset()
	s.speedKmh = 0
	s.rideID = ""
}

func (s *Session) recordLocked() Record {
	first, last := s.positions[0], s.positions[len(s.positions)-1]
	// Device clocks can step backwards between fixes.
	elapsedMs := max(last.Timestamp-first.Timestamp, 0)
	duration := time.Duration(elapsedMs) * time.Millisecond

	avg := 0.0
	if duration >= MinAverageDuration {
		avg = s.distanceKm / duration.Hours()
	}

	positions := make([]Fix, len(s.positions))
	copy(positions, s.positions)

	return Record{
		ID:              s.rideID,
		StartedAt:       first.Time(),
		DistanceKm:      s.distanceKm,
		AverageSpeedKmh: avg,
		DurationSeconds: float64(elapsedMs) / 1000,
		Positions:       positions,
	}
}

func (s *Session) snapshotLocked() Snapshot {
	positions := make([]Fix, len(s.positions))
	copy(positions, s.positions)
	return Snapshot{
		State:      s.state,
		DistanceKm: s.distanceKm,
		SpeedKmh:   s.speedKmh,
		Positions:  positions,
		Window:     s.window.Values(),
	}
}
