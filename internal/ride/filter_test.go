package ride

import (
	"math"
	"testing"
)

func TestAccept(t *testing.T) {
	for _, acc := range []float64{5, 20} {
		if !Accept(fix(0, 0, 0, acc)) {
			t.Fatalf("expected accuracy %v to be accepted", acc)
		}
	}
	for _, acc := range []float64{20.01, 25, math.NaN()} {
		if Accept(fix(0, 0, 0, acc)) {
			t.Fatalf("expected accuracy %v to be rejected", acc)
		}
	}
}

func TestInstantaneousSpeedReported(t *testing.T) {
	f := fix(0, 0, 0, 5)
	f.Speed = speed(10)
	if got := InstantaneousSpeedKmh(f, nil); !near(got, 36, 1e-9) {
		t.Fatalf("expected 36 km/h, got %f", got)
	}

	prev := fix(0, 0, 0, 5)
	if got := InstantaneousSpeedKmh(f, &prev); !near(got, 36, 1e-9) {
		t.Fatalf("reported speed should win over derived, got %f", got)
	}
}

func TestInstantaneousSpeedDerived(t *testing.T) {
	prev := fix(0, 0, 0, 5)
	cur := fix(0, 0.01, 10000, 5)
	if got := InstantaneousSpeedKmh(cur, &prev); !near(got, 400.28, 0.5) {
		t.Fatalf("expected ~400.28 km/h, got %f", got)
	}
}

func TestInstantaneousSpeedNoReference(t *testing.T) {
	if got := InstantaneousSpeedKmh(fix(1, 1, 1000, 5), nil); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
}

func TestInstantaneousSpeedClamped(t *testing.T) {
	f := fix(0, 0, 0, 5)
	f.Speed = speed(-1.5)
	if got := InstantaneousSpeedKmh(f, nil); got != 0 {
		t.Fatalf("negative reported speed: got %f", got)
	}

	prev := fix(0, 0, 5000, 5)
	if got := InstantaneousSpeedKmh(fix(0, 0.01, 1000, 5), &prev); got != 0 {
		t.Fatalf("backwards clock: got %f", got)
	}
	if got := InstantaneousSpeedKmh(fix(0, 0.01, 5000, 5), &prev); got != 0 {
		t.Fatalf("same timestamp: got %f", got)
	}
}
