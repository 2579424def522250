// Package reduce implements the Reduce transformation: shrinking a
// node's fanin set to a minimal subset equivalent to the original
// function on its observability care set.
package reduce

import (
	"math/rand"
	"sort"

	"aigrewrite/internal/bitvec"
	"aigrewrite/internal/maig"
	"aigrewrite/internal/simulate"
)

// Run attempts Reduce on every internal node, in randomized order, and
// returns the number of nodes whose fanin list actually changed.
func Run(m *maig.MAIG, sim *simulate.Simulator, rng *rand.Rand) int {
	order := make([]int, 0, m.FirstPO()-m.FirstNode())
	for id := m.FirstNode(); id < m.FirstPO(); id++ {
		order = append(order, id)
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	reduced := 0
	for _, v := range order {
		if m.Objs[v].IsConstNode() {
			continue
		}
		if reduceOne(m, sim, v) {
			reduced++
		}
	}
	return reduced
}

func reduceOne(m *maig.MAIG, sim *simulate.Simulator, target int) bool {
	f, care := sim.CareSet(target)
	nW := sim.Words()

	onCare := bitvec.New(nW)
	onCare.CopyFrom(care)
	onCare.And(f)
	if onCare.IsZero() {
		setConst(m, sim, target, maig.LitFalse)
		return true
	}
	offCare := bitvec.New(nW)
	offCare.CopyFrom(care)
	notF := bitvec.New(nW)
	notF.CopyInvertFrom(f)
	offCare.And(notF)
	if offCare.IsZero() {
		setConst(m, sim, target, maig.LitTrue)
		return true
	}

	original := m.Objs[target].Fanins
	if len(original) <= 1 {
		return false
	}

	// Single-literal shortcut: if some fanin's own function already
	// equals f on the care set, the node degenerates to a buffer.
	for _, l := range original {
		lv := literalTable(sim, l)
		if bitvec.EqualOnCare(lv, f, care) {
			m.Objs[target].Fanins = []maig.Lit{l}
			sim.Resimulate(target)
			return true
		}
	}

	kept := append([]maig.Lit(nil), original...)
	sort.SliceStable(kept, func(i, j int) bool {
		return m.Objs[kept[i].Var()].Refs > m.Objs[kept[j].Var()].Refs
	})

	for i := len(kept) - 1; i >= 0; i-- {
		trial := make([]maig.Lit, 0, len(kept)-1)
		trial = append(trial, kept[:i]...)
		trial = append(trial, kept[i+1:]...)
		if len(trial) == 0 {
			continue // never drop the last literal via this path
		}
		prod := product(sim, trial)
		if bitvec.EqualOnCare(prod, f, care) {
			kept = trial
		}
	}

	if len(kept) == len(original) {
		return false
	}
	fanins, constant, isConst := maig.CanonicalizeFanins(kept)
	if isConst {
		setConst(m, sim, target, constant)
	} else {
		m.Objs[target].Fanins = fanins
		sim.Resimulate(target)
	}
	return true
}

func literalTable(sim *simulate.Simulator, l maig.Lit) bitvec.BitVec {
	t := bitvec.New(sim.Words())
	t.CopyPolarity(sim.Value(l.Var()), l.Pol())
	return t
}

func product(sim *simulate.Simulator, lits []maig.Lit) bitvec.BitVec {
	out := bitvec.New(sim.Words())
	if len(lits) == 0 {
		out.Fill1()
		return out
	}
	out.CopyPolarity(sim.Value(lits[0].Var()), lits[0].Pol())
	for _, l := range lits[1:] {
		out.AndPolarity(sim.Value(l.Var()), l.Pol())
	}
	return out
}

func setConst(m *maig.MAIG, sim *simulate.Simulator, target int, lit maig.Lit) {
	m.Objs[target].Fanins = []maig.Lit{lit}
	sim.Resimulate(target)
}
