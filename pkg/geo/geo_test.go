package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb/geojson"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2     Point
		wantMeters float64
		tolerance  float64
	}{
		{
			name:       "SamePoint",
			p1:         Point{Lat: 6.36, Lon: 2.08},
			p2:         Point{Lat: 6.36, Lon: 2.08},
			wantMeters: 0,
			tolerance:  0.001,
		},
		{
			name:       "OneDegreeLatAtEquator",
			p1:         Point{Lat: 0, Lon: 0},
			p2:         Point{Lat: 1, Lon: 0},
			wantMeters: 111194.9,
			tolerance:  100,
		},
		{
			name:       "OuidahToSalvador",
			p1:         Point{Lat: 6.3667, Lon: 2.0852},
			p2:         Point{Lat: -12.9714, Lon: -38.5014},
			wantMeters: 4966000,
			tolerance:  50000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.p1, tt.p2)
			if math.Abs(got-tt.wantMeters) > tt.tolerance {
				t.Errorf("Distance() = %.1f, want %.1f ± %.1f", got, tt.wantMeters, tt.tolerance)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	pts := []Point{
		{Lat: 10, Lon: -60},
		{Lat: 20, Lon: -70},
		{Lat: 30, Lon: -80},
	}
	c := Centroid(pts)
	if c.Lat != 20 || c.Lon != -70 {
		t.Errorf("Centroid() = %+v, want {20 -70}", c)
	}

	if z := (Centroid(nil)); z != (Point{}) {
		t.Errorf("Centroid(nil) = %+v, want zero point", z)
	}
}

func TestBoundOf(t *testing.T) {
	pts := []Point{
		{Lat: -12.97, Lon: -38.50},
		{Lat: 18.47, Lon: -66.10},
		{Lat: 23.13, Lon: -82.38},
	}
	b, ok := BoundOf(pts)
	if !ok {
		t.Fatal("BoundOf() ok = false, want true")
	}
	if b.MinLat != -12.97 || b.MaxLat != 23.13 || b.MinLon != -82.38 || b.MaxLon != -38.50 {
		t.Errorf("BoundOf() = %+v", b)
	}

	if _, ok := BoundOf(nil); ok {
		t.Error("BoundOf(nil) ok = true, want false")
	}
}

func TestNumberProp(t *testing.T) {
	props := geojson.Properties{
		"float":   12345.0,
		"string":  "6700",
		"padded":  " 512 ",
		"garbage": "n/a",
		"empty":   "",
	}

	tests := []struct {
		key    string
		want   float64
		wantOK bool
	}{
		{"float", 12345.0, true},
		{"string", 6700, true},
		{"padded", 512, true},
		{"garbage", 0, false},
		{"empty", 0, false},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := NumberProp(props, tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NumberProp(%q) = (%v, %v), want (%v, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStringProp(t *testing.T) {
	props := geojson.Properties{"name": "Bahia", "num": 42.0}
	if got := StringProp(props, "name"); got != "Bahia" {
		t.Errorf("StringProp(name) = %q", got)
	}
	if got := StringProp(props, "num"); got != "" {
		t.Errorf("StringProp(num) = %q, want empty", got)
	}
	if got := StringProp(props, "missing"); got != "" {
		t.Errorf("StringProp(missing) = %q, want empty", got)
	}
}
