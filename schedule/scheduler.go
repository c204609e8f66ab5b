// Package schedule activates agents once per tick in random order, one kind at a time.
//
// Agents of each kind are activated as a block. Kinds are processed in a fixed order
// and the members of each kind are shuffled with the simulation's random source.
// Steps may add or remove agents; the scheduler iterates over a snapshot and skips
// members that were removed before their turn.
package schedule

import (
	"math/rand"

	"github.com/pthm-cable/dooders/components"
)

// Agent is anything the scheduler can activate.
type Agent interface {
	ID() uint64
	Kind() components.Kind
	Step()
}

// Predicate filters agents for TypeCount.
type Predicate func(Agent) bool

// slot is one insertion into a group. seq distinguishes a re-added ID from its stale slot.
type slot struct {
	id  uint64
	seq uint64
}

type member struct {
	agent Agent
	seq   uint64
}

// group holds the live members of one kind in insertion order.
type group struct {
	order []slot
	live  map[uint64]member
}

func newGroup() *group {
	return &group{live: make(map[uint64]member)}
}

// snapshot returns the live members in insertion order and compacts stale slots.
func (g *group) snapshot() []member {
	members := make([]member, 0, len(g.live))
	kept := g.order[:0]
	for _, s := range g.order {
		m, ok := g.live[s.id]
		if !ok || m.seq != s.seq {
			continue
		}
		kept = append(kept, s)
		members = append(members, m)
	}
	g.order = kept
	return members
}

// alive reports whether m is still the registered member for its ID.
func (g *group) alive(m member) bool {
	cur, ok := g.live[m.agent.ID()]
	return ok && cur.seq == m.seq
}

// Scheduler is a random activation by type scheduler.
type Scheduler struct {
	rng    *rand.Rand
	groups map[components.Kind]*group
	kinds  []components.Kind // activation order
	pinned map[components.Kind]bool
	seq    uint64
	steps  int
	count  int

	beforeKind func(components.Kind)
}

// New creates a scheduler drawing its shuffles from rng.
// Kinds listed in order are activated first, in that order; any other kind is
// appended the first time an agent of it is added.
func New(rng *rand.Rand, order ...components.Kind) *Scheduler {
	s := &Scheduler{
		rng:    rng,
		groups: make(map[components.Kind]*group),
		pinned: make(map[components.Kind]bool),
	}
	for _, k := range order {
		if s.pinned[k] {
			continue
		}
		s.pinned[k] = true
		s.kinds = append(s.kinds, k)
	}
	return s
}

// Add registers an agent under its kind. Adding an agent that is already present is a no-op.
func (s *Scheduler) Add(a Agent) {
	k := a.Kind()
	g, ok := s.groups[k]
	if !ok {
		g = newGroup()
		s.groups[k] = g
		if !s.pinned[k] {
			s.pinned[k] = true
			s.kinds = append(s.kinds, k)
		}
	}
	if _, exists := g.live[a.ID()]; exists {
		return
	}
	s.seq++
	g.live[a.ID()] = member{agent: a, seq: s.seq}
	g.order = append(g.order, slot{id: a.ID(), seq: s.seq})
	s.count++
}

// Remove unregisters an agent. Removing an absent agent does nothing.
func (s *Scheduler) Remove(a Agent) {
	g, ok := s.groups[a.Kind()]
	if !ok {
		return
	}
	if _, exists := g.live[a.ID()]; !exists {
		return
	}
	delete(g.live, a.ID())
	s.count--
}

// Contains reports whether the agent is currently registered.
func (s *Scheduler) Contains(a Agent) bool {
	g, ok := s.groups[a.Kind()]
	if !ok {
		return false
	}
	_, exists := g.live[a.ID()]
	return exists
}

// OnKind installs a hook that Step calls before each kind's activation block.
func (s *Scheduler) OnKind(fn func(components.Kind)) {
	s.beforeKind = fn
}

// Step activates every live agent once, kind by kind, then advances the tick counter.
func (s *Scheduler) Step() {
	for _, k := range s.kinds {
		if s.beforeKind != nil {
			s.beforeKind(k)
		}
		s.StepKind(k)
	}
	s.steps++
}

// StepKind activates the agents of one kind in shuffled order without advancing the tick.
// Agents added during the pass wait for the next one; agents removed before their turn are skipped.
func (s *Scheduler) StepKind(k components.Kind) {
	g, ok := s.groups[k]
	if !ok || len(g.live) == 0 {
		return
	}
	members := g.snapshot()
	s.rng.Shuffle(len(members), func(i, j int) {
		members[i], members[j] = members[j], members[i]
	})
	for _, m := range members {
		if !g.alive(m) {
			continue
		}
		m.agent.Step()
	}
}

// Steps returns the number of completed ticks.
func (s *Scheduler) Steps() int {
	return s.steps
}

// Len returns the total number of registered agents.
func (s *Scheduler) Len() int {
	return s.count
}

// TypeCount returns the number of live agents of kind k that satisfy every predicate.
func (s *Scheduler) TypeCount(k components.Kind, preds ...Predicate) int {
	g, ok := s.groups[k]
	if !ok {
		return 0
	}
	if len(preds) == 0 {
		return len(g.live)
	}
	n := 0
	for _, m := range g.live {
		if matches(m.agent, preds) {
			n++
		}
	}
	return n
}

// Agents returns the live agents of kind k in insertion order.
func (s *Scheduler) Agents(k components.Kind) []Agent {
	g, ok := s.groups[k]
	if !ok {
		return nil
	}
	members := g.snapshot()
	agents := make([]Agent, len(members))
	for i, m := range members {
		agents[i] = m.agent
	}
	return agents
}

// Kinds returns the activation order.
func (s *Scheduler) Kinds() []components.Kind {
	out := make([]components.Kind, len(s.kinds))
	copy(out, s.kinds)
	return out
}

func matches(a Agent, preds []Predicate) bool {
	for _, p := range preds {
		if p != nil && !p(a) {
			return false
		}
	}
	return true
}
