package ride

import "time"

// Subscription identifies an active sensor watch.
type Subscription int64

// WatchOptions are passed to the sensor on subscribe.
type WatchOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxCachedAge time.Duration
}

// DefaultWatchOptions asks for fresh, high-accuracy fixes with a five
// second acquisition timeout.
var DefaultWatchOptions = WatchOptions{
	HighAccuracy: true,
	Timeout:      5 * time.Second,
	MaxCachedAge: 0,
}

// Sensor streams position fixes. Implementations must not invoke the
// callbacks synchronously from Subscribe, and Unsubscribe must not wait for
// a callback that is already running.
type Sensor interface {
	Subscribe(onFix func(Fix), onError func(error), opts WatchOptions) (Subscription, error)
	Unsubscribe(sub Subscription)
}
