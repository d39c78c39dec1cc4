package splines

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/spencer-p/nscharters/pkg/noaa"
)

func ExampleCurvesBetween() {
	tstart := time.Time{}
	tend := tstart.Add(10 * time.Second)
	preds := noaa.Predictions{{
		Time:   noaa.Time(tstart),
		Height: 0,
	}, {
		Time:   noaa.Time(tend),
		Height: 10,
	}}
	curve := CurvesBetween(preds)[0]
	fmt.Printf("a = %.2f\n", curve.a)
	fmt.Printf("b = %.2f\n", curve.b)
	fmt.Printf("d = %.2f\n", curve.d)
	// Output:
	// a = -0.02
	// b = 0.30
	// d = 0.00
}

func TestSample(t *testing.T) {
	tstart := time.Date(2024, time.July, 4, 8, 0, 0, 0, time.UTC)
	preds := noaa.Predictions{
		{Time: noaa.Time(tstart), Height: 3.1, Type: noaa.HighTide},
		{Time: noaa.Time(tstart.Add(6 * time.Hour)), Height: 0.2, Type: noaa.LowTide},
		{Time: noaa.Time(tstart.Add(12 * time.Hour)), Height: 3.4, Type: noaa.HighTide},
	}

	got := Sample(CurvesBetween(preds), time.Hour)
	if len(got) != 13 {
		t.Fatalf("got %d samples, want 13", len(got))
	}
	for i, p := range got {
		if p.Type != noaa.NoTide {
			t.Errorf("sample %d has tide type %s", i, p.Type)
		}
		if h := float64(p.Height); math.IsNaN(h) || h < 0.2-1e-9 || h > 3.4+1e-9 {
			t.Errorf("sample %d height %f outside event range", i, h)
		}
	}
	if h := float64(got[6].Height); math.Abs(h-0.2) > 1e-9 {
		t.Errorf("sample at low tide = %f, want 0.2", h)
	}
	if h := float64(got[12].Height); math.Abs(h-3.4) > 1e-9 {
		t.Errorf("last sample = %f, want 3.4", h)
	}
}

func TestSampleEmpty(t *testing.T) {
	if got := Sample(nil, time.Hour); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
