package telemetry

import (
	"math"
	"reflect"
	"testing"
)

func TestDataCollector(t *testing.T) {
	dc := NewDataCollector()
	wolves, sheep := 5.0, 10.0
	if err := dc.AddReporter(SeriesPredators, func() float64 { return wolves }); err != nil {
		t.Fatal(err)
	}
	if err := dc.AddReporter(SeriesPrey, func() float64 { return sheep }); err != nil {
		t.Fatal(err)
	}
	if err := dc.AddReporter(SeriesPrey, func() float64 { return 0 }); err == nil {
		t.Error("duplicate reporter accepted")
	}

	if _, ok := dc.Latest(); ok {
		t.Error("Latest() on empty collector reported a sample")
	}

	dc.Collect(0)
	wolves, sheep = 6, 8
	dc.Collect(1)

	got, ok := dc.Series(SeriesPrey)
	if !ok || !reflect.DeepEqual(got, []float64{10, 8}) {
		t.Errorf("prey series = %v, %v", got, ok)
	}
	if _, ok := dc.Series("Grass"); ok {
		t.Error("unknown series reported present")
	}

	last, _ := dc.Latest()
	if last.Tick != 1 {
		t.Errorf("latest tick = %d, want 1", last.Tick)
	}
	rec := dc.Record(last)
	if rec.Predators != 6 || rec.Prey != 8 || rec.Food != 0 {
		t.Errorf("record = %+v", rec)
	}
	if since := dc.Since(1); len(since) != 1 {
		t.Errorf("Since(1) len = %d, want 1", len(since))
	}

	if err := dc.AddReporter(SeriesFood, func() float64 { return 0 }); err == nil {
		t.Error("reporter added after sampling started")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9, 0})
	if s.Min != 0 || s.Max != 9 {
		t.Errorf("min/max = %v/%v", s.Min, s.Max)
	}
	if math.Abs(s.Mean-40.0/9) > 1e-9 {
		t.Errorf("mean = %v", s.Mean)
	}
	if s.Zeroed != 8 || s.Final != 0 {
		t.Errorf("zeroed/final = %d/%v", s.Zeroed, s.Final)
	}
	if s.CV <= 0 {
		t.Errorf("cv = %v, want > 0", s.CV)
	}

	if empty := Summarize(nil); empty.Zeroed != -1 || empty.Mean != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestCoexistence(t *testing.T) {
	wolves := []float64{3, 2, 1, 0, 1}
	sheep := []float64{9, 9, 9, 9, 9}
	if got := Coexistence(wolves, sheep); got != 3 {
		t.Errorf("Coexistence = %d, want 3", got)
	}
	if got := Coexistence(sheep, sheep[:2]); got != 2 {
		t.Errorf("Coexistence = %d, want 2", got)
	}
}
