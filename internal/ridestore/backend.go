// Package ridestore persists finalized rides for each rider.
package ridestore

import (
	"context"

	"backend-ridetrack/internal/ride"
)

// Backend stores rides per rider, returning them in the order appended.
type Backend interface {
	Append(ctx context.Context, riderID string, rec ride.Record) error
	List(ctx context.Context, riderID string) ([]ride.Record, error)
}

type riderStore struct {
	backend Backend
	riderID string
}

// ForRider scopes a backend to a single rider.
func ForRider(b Backend, riderID string) ride.Store {
	return riderStore{backend: b, riderID: riderID}
}

func (s riderStore) ListRides(ctx context.Context) ([]ride.Record, error) {
	rides, err := s.backend.List(ctx, s.riderID)
	if err != nil {
		return nil, err
	}
	if rides == nil {
		rides = []ride.Record{}
	}
	return rides, nil
}

func (s riderStore) AppendRide(ctx context.Context, rec ride.Record) error {
	return s.backend.Append(ctx, s.riderID, rec)
}
