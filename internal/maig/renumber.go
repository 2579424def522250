package maig

import (
	"sort"

	rwerr "aigrewrite/internal/errors"
)

// Renumber is the DFS duplicator generalized to multi-input form: it
// walks from the POs, recursively materializing each reachable object's
// fanins before assigning the object itself a fresh, monotonically
// increasing id, and detects combinational loops exactly as
// Canonicalize's visitor does. Unlike Canonicalize it performs no
// two-input folding — fanin lists are carried over verbatim (re-sorted
// after id remapping) — so it's the tool Share reaches for after
// splicing in a shared node whose consumers may have a lower id than
// the node they now reference.
func Renumber(m *MAIG) (*MAIG, error) {
	out := New(m.NumIns, m.NumOuts)

	const (
		stateUnvisited = 0
		stateVisiting  = 1
		stateDone      = 2
	)
	state := make([]uint8, len(m.Objs))
	newID := make([]int, len(m.Objs))
	for id := 0; id <= m.NumIns; id++ {
		newID[id] = id
	}

	var visit func(id int) error
	visit = func(id int) error {
		if id <= m.NumIns {
			return nil
		}
		switch state[id] {
		case stateDone:
			return nil
		case stateVisiting:
			return rwerr.Invalidf("combinational loop through object %d", id)
		}
		state[id] = stateVisiting
		obj := m.Objs[id]
		for _, fl := range obj.Fanins {
			if err := visit(fl.Var()); err != nil {
				return err
			}
		}
		state[id] = stateDone

		remapped := make([]Lit, len(obj.Fanins))
		for i, fl := range obj.Fanins {
			v := newID[fl.Var()]
			if fl.Pol() == 1 {
				remapped[i] = Pos(v).Neg()
			} else {
				remapped[i] = Pos(v)
			}
		}
		sort.Slice(remapped, func(i, j int) bool { return remapped[i] < remapped[j] })

		nid := len(out.Objs)
		out.Objs = append(out.Objs, Object{Kind: KindNode, Fanins: remapped})
		newID[id] = nid
		return nil
	}

	for id := m.FirstPO(); id < len(m.Objs); id++ {
		if err := visit(m.Objs[id].Fanins[0].Var()); err != nil {
			return nil, err
		}
	}
	for id := m.FirstPO(); id < len(m.Objs); id++ {
		fl := m.Objs[id].Fanins[0]
		lit := Pos(newID[fl.Var()])
		if fl.Pol() == 1 {
			lit = lit.Neg()
		}
		out.AddPO(lit)
	}
	out.Recount()
	return out, nil
}
