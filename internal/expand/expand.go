// Package expand implements the Expand transformation: enlarging a
// node's fanin set with literals that don't change its function on the
// observability care set, giving Share and Reduce more structure to
// exploit downstream.
package expand

import (
	"math/rand"

	"aigrewrite/internal/bitvec"
	"aigrewrite/internal/maig"
	"aigrewrite/internal/simulate"
)

// Run attempts Expand on every internal node, in randomized order,
// stopping once the total number of literals added across all nodes
// reaches nExpands (or the order is exhausted). It returns the total
// count added. Each node may add up to whatever remains of the nExpands
// budget, so a single node can use it all.
func Run(m *maig.MAIG, sim *simulate.Simulator, rng *rand.Rand, nExpands int) int {
	if nExpands <= 0 {
		return 0
	}
	order := make([]int, 0, m.FirstPO()-m.FirstNode())
	for id := m.FirstNode(); id < m.FirstPO(); id++ {
		order = append(order, id)
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	added := 0
	for _, v := range order {
		if added >= nExpands {
			break
		}
		if m.Objs[v].IsConstNode() {
			continue
		}
		added += expandOne(m, sim, rng, v, nExpands-added)
	}
	return added
}

func expandOne(m *maig.MAIG, sim *simulate.Simulator, rng *rand.Rand, target, capRemaining int) int {
	f, care := sim.CareSet(target)
	nW := sim.Words()

	onCare := bitvec.New(nW)
	onCare.CopyFrom(care)
	onCare.And(f)
	if onCare.IsZero() {
		setConst(m, sim, target, maig.LitFalse)
		return 0
	}
	offCare := bitvec.New(nW)
	offCare.CopyFrom(care)
	notF := bitvec.New(nW)
	notF.CopyInvertFrom(f)
	offCare.And(notF)
	if offCare.IsZero() {
		setConst(m, sim, target, maig.LitTrue)
		return 0
	}

	onset := onCare // care ∧ f, the minterms where v must be 1

	forbidden := make(map[int]bool, len(m.Objs[target].Fanins)+1)
	forbidden[target] = true
	for _, fl := range m.Objs[target].Fanins {
		forbidden[fl.Var()] = true
	}

	candidates := make([]int, 0, m.NumObjs())
	for c := 1; c <= m.NumIns; c++ {
		if !forbidden[c] {
			candidates = append(candidates, c)
		}
	}
	// Restricted to c < target: a candidate with a higher id could never
	// legally become one of target's fanins without violating the
	// topological invariant every other stage (and the simulator's
	// single ascending-order pass) depends on. Every such c is guaranteed
	// not to be in target's TFO already, since collectTFO only ever marks
	// ids above target.
	for c := m.FirstNode(); c < target; c++ {
		if forbidden[c] {
			continue
		}
		candidates = append(candidates, c)
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	newFanins := append([]maig.Lit(nil), m.Objs[target].Fanins...)
	added := 0
	check := bitvec.New(nW)
	for _, c := range candidates {
		if added >= capRemaining {
			break
		}
		table := sim.Value(c)
		addedThisCandidate := false
		for p := 0; p < 2 && !addedThisCandidate; p++ {
			// c_p is the truth table of literal 2c+p; test onset ∧ ¬(c_p) = 0,
			// i.e. c_p is 1 everywhere v must be 1.
			check.CopyFrom(onset)
			if p == 0 {
				check.AndNot(table)
			} else {
				check.And(table)
			}
			if check.IsZero() {
				newFanins = append(newFanins, maig.NewLit(c, p == 1))
				added++
				addedThisCandidate = true
			}
		}
	}
	if added == 0 {
		return 0
	}

	fanins, constant, isConst := maig.CanonicalizeFanins(newFanins)
	if isConst {
		setConst(m, sim, target, constant)
	} else {
		m.Objs[target].Fanins = fanins
		sim.Resimulate(target)
	}
	return added
}

func setConst(m *maig.MAIG, sim *simulate.Simulator, target int, lit maig.Lit) {
	m.Objs[target].Fanins = []maig.Lit{lit}
	sim.Resimulate(target)
}
