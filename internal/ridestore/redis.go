package ridestore

import (
	"context"

	"backend-ridetrack/internal/ride"

	"github.com/redis/go-redis/v9"
)

// Redis keeps one list per rider, each element a JSON encoded record.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Append(ctx context.Context, riderID string, rec ride.Record) error {
	payload, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return r.client.RPush(ctx, ridesKey(riderID), payload).Err()
}

func (r *Redis) List(ctx context.Context, riderID string) ([]ride.Record, error) {
	items, err := r.client.LRange(ctx, ridesKey(riderID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	rides := make([]ride.Record, 0, len(items))
	for _, item := range items {
		rec, err := decodeRecord([]byte(item))
		if err != nil {
			return nil, err
		}
		rides = append(rides, rec)
	}
	return rides, nil
}

func ridesKey(riderID string) string {
	return "rides:" + riderID
}
