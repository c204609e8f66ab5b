package components

// Organism bundles identity and kind. Both are immutable after creation.
type Organism struct {
	ID   uint64
	Kind Kind
}

// Energy tracks an animal's reserve. Animals die once Value drops below zero.
type Energy struct {
	Value float64
}

// Growth is the regrowth state of a food patch.
type Growth struct {
	FullyGrown bool
	Countdown  int // ticks until the patch is grown again
}
