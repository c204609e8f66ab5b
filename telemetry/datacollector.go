package telemetry

import "fmt"

// Standard series names sampled by the model.
const (
	SeriesPredators = "Predators"
	SeriesPrey      = "Prey"
	SeriesFood      = "Food"
)

// Reporter returns the current value of one series.
type Reporter func() float64

// Sample is one row of the time series: the value of every reporter at Tick,
// in reporter registration order.
type Sample struct {
	Tick   int
	Values []float64
}

// DataCollector samples named reporters into a time series.
type DataCollector struct {
	names     []string
	reporters []Reporter
	index     map[string]int
	samples   []Sample
}

// NewDataCollector creates an empty collector.
func NewDataCollector() *DataCollector {
	return &DataCollector{index: make(map[string]int)}
}

// AddReporter registers a named series. Reporters must be added before the first Collect.
func (dc *DataCollector) AddReporter(name string, fn Reporter) error {
	if _, ok := dc.index[name]; ok {
		return fmt.Errorf("reporter %q already registered", name)
	}
	if len(dc.samples) > 0 {
		return fmt.Errorf("reporter %q added after sampling started", name)
	}
	dc.index[name] = len(dc.names)
	dc.names = append(dc.names, name)
	dc.reporters = append(dc.reporters, fn)
	return nil
}

// Collect evaluates every reporter and appends the sample.
func (dc *DataCollector) Collect(tick int) Sample {
	s := Sample{Tick: tick, Values: make([]float64, len(dc.reporters))}
	for i, r := range dc.reporters {
		s.Values[i] = r()
	}
	dc.samples = append(dc.samples, s)
	return s
}

// Names returns the series names in registration order.
func (dc *DataCollector) Names() []string {
	return append([]string(nil), dc.names...)
}

// Series returns every sampled value of the named series.
func (dc *DataCollector) Series(name string) ([]float64, bool) {
	i, ok := dc.index[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(dc.samples))
	for j, s := range dc.samples {
		out[j] = s.Values[i]
	}
	return out, true
}

// Value returns the named series' value in sample s.
func (dc *DataCollector) Value(s Sample, name string) (float64, bool) {
	i, ok := dc.index[name]
	if !ok || i >= len(s.Values) {
		return 0, false
	}
	return s.Values[i], true
}

// Samples returns all samples collected so far.
func (dc *DataCollector) Samples() []Sample {
	return dc.samples
}

// Since returns the samples taken at or after tick.
func (dc *DataCollector) Since(tick int) []Sample {
	for i, s := range dc.samples {
		if s.Tick >= tick {
			return dc.samples[i:]
		}
	}
	return nil
}

// Latest returns the most recent sample.
func (dc *DataCollector) Latest() (Sample, bool) {
	if len(dc.samples) == 0 {
		return Sample{}, false
	}
	return dc.samples[len(dc.samples)-1], true
}

// Len returns the number of samples.
func (dc *DataCollector) Len() int {
	return len(dc.samples)
}

// SeriesRecord is the CSV row for the standard population series.
type SeriesRecord struct {
	Tick      int     `csv:"tick"`
	Predators float64 `csv:"predators"`
	Prey      float64 `csv:"prey"`
	Food      float64 `csv:"food"`
}

// Record flattens a sample of the standard series into a CSV row.
func (dc *DataCollector) Record(s Sample) SeriesRecord {
	rec := SeriesRecord{Tick: s.Tick}
	rec.Predators, _ = dc.Value(s, SeriesPredators)
	rec.Prey, _ = dc.Value(s, SeriesPrey)
	rec.Food, _ = dc.Value(s, SeriesFood)
	return rec
}
