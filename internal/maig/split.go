package maig

import "math/rand"

// Split converts a two-input-only MAIG into a generalized multi-input
// MAIG: the Expand precondition. It computes a stopCount per object
// (PI/const start at 2; each fanin reference adds 1+pol(lit); POs add 2
// to their fanin's var) and absorbs every object with stopCount == 1 —
// a pass-through of an un-inverted cone — into its parent's fanin list.
// Oversized buckets are cascaded into a randomized chain of links, each
// sized 2+rand(nFaninMax-1), and every installed node reserves
// 1+rand(nGrowth) spare capacity for subsequent Expand additions.
func Split(m *MAIG, rng *rand.Rand, nFaninMax, nGrowth int) *MAIG {
	stopCount := make([]int, len(m.Objs))
	stopCount[0] = 2
	for id := 1; id <= m.NumIns; id++ {
		stopCount[id] = 2
	}
	for id := m.FirstNode(); id < m.FirstPO(); id++ {
		for _, fl := range m.Objs[id].Fanins {
			stopCount[fl.Var()] += 1 + fl.Pol()
		}
	}
	for id := m.FirstPO(); id < len(m.Objs); id++ {
		stopCount[m.Objs[id].Fanins[0].Var()] += 2
	}

	out := New(m.NumIns, m.NumOuts)
	oldToNew := make([]Lit, len(m.Objs))
	for id := 0; id <= m.NumIns; id++ {
		oldToNew[id] = Pos(id)
	}

	// collect descends through stopCount==1 nodes (always referenced
	// un-inverted, per the algorithm) gathering the frontier of stop
	// points reached from lit.
	var collect func(lit Lit) []Lit
	collect = func(lit Lit) []Lit {
		v := lit.Var()
		if v >= m.FirstNode() && v < m.FirstPO() && stopCount[v] == 1 && lit.Pol() == 0 {
			var frontier []Lit
			for _, fl := range m.Objs[v].Fanins {
				frontier = append(frontier, collect(fl)...)
			}
			return frontier
		}
		return []Lit{lit}
	}

	for id := m.FirstNode(); id < m.FirstPO(); id++ {
		if stopCount[id] == 1 {
			continue // absorbed into its parent
		}
		obj := m.Objs[id]
		var gathered []Lit
		for _, fl := range obj.Fanins {
			gathered = append(gathered, collect(fl)...)
		}
		remapped := make([]Lit, len(gathered))
		for i, fl := range gathered {
			remapped[i] = remapLit(oldToNew, fl)
		}
		fanins, constant, isConst := CanonicalizeFanins(remapped)
		if isConst {
			oldToNew[id] = constant
			continue
		}
		if len(fanins) > nFaninMax {
			rng.Shuffle(len(fanins), func(i, j int) { fanins[i], fanins[j] = fanins[j], fanins[i] })
		}
		oldToNew[id] = cascade(out, fanins, rng, nFaninMax, nGrowth)
	}

	for id := m.FirstPO(); id < len(m.Objs); id++ {
		out.AddPO(remapLit(oldToNew, m.Objs[id].Fanins[0]))
	}
	out.Recount()
	return out
}

func remapLit(oldToNew []Lit, l Lit) Lit {
	base := oldToNew[l.Var()]
	if l.Pol() == 1 {
		return base.Neg()
	}
	return base
}

// cascade installs lits (already canonical: sorted, deduped, const-free)
// as a single node's fanin list if it fits within nFaninMax, or chains
// them through intermediate nodes otherwise. For an oversized list the
// caller has already shuffled lits into a random chain order; each chain
// link is re-sorted by CanonicalizeFanins.
func cascade(out *MAIG, lits []Lit, rng *rand.Rand, nFaninMax, nGrowth int) Lit {
	if len(lits) <= nFaninMax {
		return appendNodeWithHeadroom(out, lits, nGrowth, rng)
	}
	acc := lits[0]
	rest := lits[1:]
	for len(rest) > 0 {
		span := nFaninMax - 1
		if span < 1 {
			span = 1
		}
		linkMax := 2 + rng.Intn(span)
		if linkMax > nFaninMax {
			linkMax = nFaninMax
		}
		take := linkMax - 1 // one slot reserved for acc
		if take < 1 {
			take = 1
		}
		if take > len(rest) {
			take = len(rest)
		}
		group, constant, isConst := CanonicalizeFanins(append([]Lit{acc}, rest[:take]...))
		rest = rest[take:]
		if isConst {
			acc = constant
			continue
		}
		acc = appendNodeWithHeadroom(out, group, nGrowth, rng)
	}
	return acc
}

func appendNodeWithHeadroom(out *MAIG, fanins []Lit, nGrowth int, rng *rand.Rand) Lit {
	headroom := 1 + rng.Intn(maxInt(1, nGrowth))
	buf := make([]Lit, len(fanins), len(fanins)+headroom)
	copy(buf, fanins)
	return out.AddNode(buf)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
