package ride

import "errors"

var (
	ErrSensorUnsupported = errors.New("location sensor not supported")
	ErrSensorDelivery    = errors.New("location sensor delivery error")
	ErrRideTooShort      = errors.New("ride too short: need at least two accepted positions")
	ErrStoreFailure      = errors.New("ride store failure")
	ErrAlreadyTracking   = errors.New("ride already tracking")
	ErrNotStarted        = errors.New("ride not started")
)
