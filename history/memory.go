package history

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/pthm-cable/dooders/telemetry"
)

var errNotInitialized = errors.New("store not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	points      map[string][]Point
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.points = make(map[string][]Point)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sortRuns(out)
	return out, nil
}

func (s *MemoryStore) AppendSamples(_ context.Context, runID string, names []string, samples []telemetry.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	if _, ok := s.runs[runID]; !ok {
		return errUnknownRun(runID)
	}
	s.points[runID] = append(s.points[runID], Flatten(names, samples)...)
	return nil
}

func (s *MemoryStore) GetSamples(_ context.Context, runID string) ([]Point, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := s.points[runID]
	if len(points) == 0 {
		return nil, false, nil
	}
	return append([]Point(nil), points...), true, nil
}

// sortRuns orders runs by start time, then ID.
func sortRuns(runs []Run) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.Before(runs[j].StartedAt)
		}
		return runs[i].ID < runs[j].ID
	})
}
