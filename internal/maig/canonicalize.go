package maig

import rwerr "aigrewrite/internal/errors"

// andTwo folds AND(a,b) with constant propagation (AND(0,x)=0, AND(1,x)=x,
// AND(x,x)=x, AND(x,!x)=0) before falling back to the strash table, which
// is keyed by the unordered pair so AND(a,b) and AND(b,a) dedupe.
func andTwo(dst *MAIG, st *strash, a, b Lit) Lit {
	switch {
	case a.IsFalse() || b.IsFalse():
		return LitFalse
	case a.IsTrue():
		return b
	case b.IsTrue():
		return a
	case a == b:
		return a
	case a == b.Neg():
		return LitFalse
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if id, ok := st.lookup(lo, hi); ok {
		return Pos(id)
	}
	lit := dst.AddNode([]Lit{lo, hi})
	st.insert(lo, hi, lit.Var())
	return lit
}

// Canonicalize rebuilds m as a fresh, two-input-only MAIG: a combined
// strashing duplicator and DFS duplicator. It walks from the POs,
// recursively materializing each reachable node's fanins first (detecting
// combinational loops as it goes), left-folding each node's fanin list
// through andTwo. Because only nodes reached from a PO are ever visited,
// dangling nodes are dropped for free; because andTwo dedupes through the
// strash table, every internal node in the result has exactly two fanins.
func Canonicalize(m *MAIG) (*MAIG, error) {
	out := New(m.NumIns, m.NumOuts)
	st := newStrash(len(m.Objs))

	const (
		stateUnvisited = 0
		stateVisiting  = 1
		stateDone      = 2
	)
	state := make([]uint8, len(m.Objs))
	newLitOf := make([]Lit, len(m.Objs))

	var visit func(id int) (Lit, error)
	visit = func(id int) (Lit, error) {
		if id == 0 {
			return LitFalse, nil
		}
		if id < 1+m.NumIns {
			return Pos(id), nil
		}
		switch state[id] {
		case stateDone:
			return newLitOf[id], nil
		case stateVisiting:
			return 0, rwerr.Invalidf("combinational loop through object %d", id)
		}
		state[id] = stateVisiting
		obj := m.Objs[id]
		acc := LitTrue
		for _, fl := range obj.Fanins {
			sub, err := visit(fl.Var())
			if err != nil {
				return 0, err
			}
			if fl.Pol() == 1 {
				sub = sub.Neg()
			}
			acc = andTwo(out, st, acc, sub)
		}
		state[id] = stateDone
		newLitOf[id] = acc
		return acc, nil
	}

	for id := m.FirstPO(); id < len(m.Objs); id++ {
		po := m.Objs[id]
		sub, err := visit(po.Fanins[0].Var())
		if err != nil {
			return nil, err
		}
		if po.Fanins[0].Pol() == 1 {
			sub = sub.Neg()
		}
		out.AddPO(sub)
	}
	out.Recount()
	return out, nil
}
