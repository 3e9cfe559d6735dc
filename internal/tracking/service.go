package tracking

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"

	"backend-ridetrack/internal/ride"
	"backend-ridetrack/internal/ridestore"
	"backend-ridetrack/internal/sensor"
	"backend-ridetrack/internal/stream"
)

var (
	ErrNoActiveFeed = errors.New("no ride is tracking for this rider")
	ErrInvalidFix   = errors.New("invalid position fix")
)

type rider struct {
	id      string
	session *ride.Session
	feed    *sensor.Feed

	// mu serialises lifecycle calls so a rider is never evicted while
	// another request is starting its ride.
	mu      sync.Mutex
	evicted bool
}

// Service runs one ride session per rider, fed by fixes the rider's device
// uploads. Riders without a ride in progress are not kept in memory.
type Service struct {
	backend ridestore.Backend
	hub     *stream.Hub

	mu     sync.Mutex
	riders map[string]*rider
}

func NewService(backend ridestore.Backend, hub *stream.Hub) *Service {
	return &Service{
		backend: backend,
		hub:     hub,
		riders:  map[string]*rider{},
	}
}

func (s *Service) lookup(riderID string) (*rider, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.riders[riderID]
	return r, ok
}

func (s *Service) rider(riderID string) *rider {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.riders[riderID]; ok {
		return r
	}
	feed := sensor.NewFeed()
	r := &rider{
		id:   riderID,
		feed: feed,
		session: ride.NewSession(feed, ridestore.ForRider(s.backend, riderID),
			ride.WithUpdateHandler(func(snap ride.Snapshot) {
				s.publish(riderID, stream.Event{Type: "snapshot", Data: snap})
			}),
			ride.WithErrorHandler(func(err error) {
				log.Printf("rider %s: %v", riderID, err)
				s.publish(riderID, stream.Event{Type: "sensor_error", Message: err.Error()})
			}),
		),
	}
	s.riders[riderID] = r
	return r
}

// withRider runs fn on the rider's live entry and drops the entry
// afterwards if the rider has no ride in progress.
func (s *Service) withRider(riderID string, create bool, fn func(*rider)) {
	for {
		var r *rider
		if create {
			r = s.rider(riderID)
		} else {
			var ok bool
			if r, ok = s.lookup(riderID); !ok {
				return
			}
		}

		r.mu.Lock()
		if r.evicted {
			r.mu.Unlock()
			continue
		}
		fn(r)
		s.evictIfIdle(r)
		r.mu.Unlock()
		return
	}
}

// evictIfIdle must be called with r.mu held.
func (s *Service) evictIfIdle(r *rider) {
	if r.session.State() != ride.Idle {
		return
	}
	s.mu.Lock()
	if s.riders[r.id] == r {
		delete(s.riders, r.id)
	}
	s.mu.Unlock()
	r.evicted = true
	r.feed.Close()
}

func (s *Service) publish(riderID string, ev stream.Event) {
	if s.hub != nil {
		s.hub.Publish(riderID, ev)
	}
}

func idleSnapshot() ride.Snapshot {
	return ride.Snapshot{State: ride.Idle, Positions: []ride.Fix{}, Window: []float64{}}
}

func (s *Service) Start(riderID string) (ride.Snapshot, error) {
	var snap ride.Snapshot
	var err error
	s.withRider(riderID, true, func(r *rider) {
		if err = r.session.Start(); err == nil {
			snap = r.session.Snapshot()
		}
	})
	if err != nil {
		return ride.Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) Pause(riderID string) ride.Snapshot {
	snap := idleSnapshot()
	s.withRider(riderID, false, func(r *rider) {
		r.session.Pause()
		snap = r.session.Snapshot()
	})
	return snap
}

func (s *Service) Stop(ctx context.Context, riderID string) (ride.Record, error) {
	var rec ride.Record
	err := ride.ErrNotStarted
	s.withRider(riderID, false, func(r *rider) {
		rec, err = r.session.Stop(ctx)
	})
	if err != nil {
		if errors.Is(err, ride.ErrStoreFailure) {
			log.Printf("rider %s: ride kept for retry: %v", riderID, err)
		}
		return ride.Record{}, err
	}
	s.publish(riderID, stream.Event{Type: "stopped", Data: rec})
	return rec, nil
}

func (s *Service) Discard(riderID string) ride.Snapshot {
	s.withRider(riderID, false, func(r *rider) {
		r.session.Discard()
	})
	return idleSnapshot()
}

func (s *Service) Current(riderID string) ride.Snapshot {
	if r, ok := s.lookup(riderID); ok {
		return r.session.Snapshot()
	}
	return idleSnapshot()
}

// PushFix forwards a device fix to the rider's active subscription.
func (s *Service) PushFix(riderID string, fix ride.Fix) error {
	if err := validateFix(fix); err != nil {
		return err
	}
	r, ok := s.lookup(riderID)
	if !ok || !r.feed.Watching() {
		return ErrNoActiveFeed
	}
	r.feed.Push(fix)
	return nil
}

func (s *Service) History(ctx context.Context, riderID string) ([]HistoryEntry, error) {
	rides, err := ridestore.ForRider(s.backend, riderID).ListRides(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(rides))
	for _, rec := range rides {
		entries = append(entries, HistoryEntry{Record: rec, DurationMinutes: rec.DurationMinutes()})
	}
	return entries, nil
}

// Close detaches every rider's sensor feed.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.riders {
		r.feed.Close()
	}
}

// Active reports how many riders have a ride in progress.
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.riders)
}

func validateFix(fix ride.Fix) error {
	for _, v := range []float64{fix.Latitude, fix.Longitude, fix.Accuracy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidFix
		}
	}
	switch {
	case fix.Latitude < -90 || fix.Latitude > 90:
		return ErrInvalidFix
	case fix.Longitude < -180 || fix.Longitude > 180:
		return ErrInvalidFix
	case fix.Accuracy < 0 || fix.Timestamp <= 0:
		return ErrInvalidFix
	case fix.Speed != nil && (math.IsNaN(*fix.Speed) || math.IsInf(*fix.Speed, 0)):
		return ErrInvalidFix
	}
	return nil
}
