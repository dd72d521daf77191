package collision

import (
	"sort"

	"github.com/milk9111/tilerpg/actor"
)

// Pair is an unordered contact between two actors. A always has the lower
// ID so a pair has one canonical form whatever order a source reports it in.
type Pair struct {
	A, B *actor.Actor
}

func NewPair(a, b *actor.Actor) Pair {
	if b.ID() < a.ID() {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

type pairKey struct {
	a, b actor.ID
}

func (p Pair) key() pairKey {
	return pairKey{a: p.A.ID(), b: p.B.ID()}
}

// Source reports candidate contacts among actors for the current tick.
// Sources may over-report; the dispatcher confirms every pair against the
// actors' collision boxes.
type Source interface {
	Contacts(actors []*actor.Actor) []Pair
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		ki, kj := pairs[i].key(), pairs[j].key()
		if ki.a != kj.a {
			return ki.a < kj.a
		}
		return ki.b < kj.b
	})
}
