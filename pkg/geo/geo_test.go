package geo

import (
	"math"
	"testing"
)

func TestPointValid(t *testing.T) {
	cases := []struct {
		name string
		p    Point
		want bool
	}{
		{"london", Point{Lat: 51.5, Lon: -0.12}, true},
		{"negative hemisphere", Point{Lat: -33.86, Lon: 151.2}, true},
		{"null island", Point{Lat: 0, Lon: 0}, false},
		{"lat out of range", Point{Lat: 91, Lon: 0.1}, false},
		{"lon out of range", Point{Lat: 0.1, Lon: -181}, false},
		{"nan", Point{Lat: math.NaN(), Lon: 1}, false},
		{"inf", Point{Lat: 1, Lon: math.Inf(1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.Valid(); got != tc.want {
				t.Errorf("Valid(%+v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestDistanceMeters(t *testing.T) {
	// Charing Cross to St Paul's, roughly 2.3km.
	a := Point{Lat: 51.5074, Lon: -0.1278}
	b := Point{Lat: 51.5138, Lon: -0.0984}

	d := DistanceMeters(a, b)
	if d < 2100 || d > 2500 {
		t.Fatalf("DistanceMeters = %.0f, want ~2300", d)
	}
	if DistanceMeters(a, a) != 0 {
		t.Fatalf("distance to self should be zero")
	}
	if math.Abs(DistanceMeters(a, b)-DistanceMeters(b, a)) > 1e-9 {
		t.Fatalf("distance is not symmetric")
	}
}
