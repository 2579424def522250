package maig

import rwerr "aigrewrite/internal/errors"

// FromTwoInput builds a MAIG directly from a topologically ordered
// two-input AIG: andFanins[i] is the two-literal fanin pair for the i-th
// AND gate (assigned object id 1+nIns+i), outputs[j] is the fanin literal
// of PO j. Every fanin variable must already be strictly lower than its
// owning gate's eventual object id.
func FromTwoInput(nIns int, andFanins [][2]Lit, outputs []Lit) (*MAIG, error) {
	m := New(nIns, len(outputs))
	for i, pair := range andFanins {
		id := m.FirstNode() + i
		a, b := pair[0], pair[1]
		if a.Var() >= id || b.Var() >= id {
			return nil, rwerr.Invalidf("and gate %d has non-topological fanin", id)
		}
		fanins, constant, isConst := CanonicalizeFanins([]Lit{a, b})
		if isConst {
			fanins = []Lit{constant}
		}
		m.Objs = append(m.Objs, Object{Kind: KindNode, Fanins: fanins})
	}
	for _, lit := range outputs {
		if lit.Var() >= len(m.Objs) {
			return nil, rwerr.Invalidf("PO fanin refers to object %d beyond %d AND gates", lit.Var(), len(andFanins))
		}
		m.AddPO(lit)
	}
	m.Recount()
	return m, nil
}

// ToTwoInput asserts that m is already in strict two-input form (every
// internal node has exactly one or two fanins, no wider) and returns the
// AND-gate fanin pairs plus PO literals in the shape a writer expects.
// A buffer node (k=1) is expanded into AND(l, l) so callers always see a
// uniform two-fanin gate list.
func (m *MAIG) ToTwoInput() (andFanins [][2]Lit, outputs []Lit, err error) {
	andFanins = make([][2]Lit, 0, m.FirstPO()-m.FirstNode())
	for id := m.FirstNode(); id < m.FirstPO(); id++ {
		fi := m.Objs[id].Fanins
		switch len(fi) {
		case 1:
			andFanins = append(andFanins, [2]Lit{fi[0], fi[0]})
		case 2:
			andFanins = append(andFanins, [2]Lit{fi[0], fi[1]})
		default:
			return nil, nil, rwerr.Invalidf("object %d has %d fanins, not in two-input form", id, len(fi))
		}
	}
	outputs = m.Outputs()
	return andFanins, outputs, nil
}
