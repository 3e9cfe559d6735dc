package ride

import "context"

// Store persists finalized rides in insertion order.
type Store interface {
	ListRides(ctx context.Context) ([]Record, error)
	AppendRide(ctx context.Context, rec Record) error
}
