package common

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"pi", math.Pi, math.Pi},
		{"wrap_positive", 3 * math.Pi, math.Pi},
		{"wrap_negative", -3 * math.Pi, math.Pi},
		{"negative_boundary", -math.Pi, math.Pi},
		{"small_negative", -0.5, -0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeAngle(c.in); !almostEqual(got, c.want) {
				t.Fatalf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestTurnToward(t *testing.T) {
	t.Run("snaps_when_within_rate", func(t *testing.T) {
		if got := TurnToward(0, 0.1, 0.5); !almostEqual(got, 0.1) {
			t.Fatalf("expected snap to target, got %v", got)
		}
	})
	t.Run("clamps_to_rate", func(t *testing.T) {
		if got := TurnToward(0, 1.0, 0.25); !almostEqual(got, 0.25) {
			t.Fatalf("expected partial turn, got %v", got)
		}
	})
	t.Run("turns_shortest_way_across_wrap", func(t *testing.T) {
		// from just below +pi to just above -pi is a tiny positive turn
		from := math.Pi - 0.1
		target := -math.Pi + 0.1
		got := TurnToward(from, target, 0.05)
		if got < from && got > -math.Pi {
			t.Fatalf("turned the long way: %v", got)
		}
	})
}

func TestDistAndHeading(t *testing.T) {
	if got := Dist(0, 0, 3, 4); !almostEqual(got, 5) {
		t.Fatalf("Dist = %v, want 5", got)
	}
	if got := HeadingTo(0, 0, 0, 1); !almostEqual(got, math.Pi/2) {
		t.Fatalf("HeadingTo = %v, want pi/2", got)
	}
}
