package maig

import (
	"sort"

	rwerr "aigrewrite/internal/errors"
)

// MAIG is the arena: a contiguous pool of objects addressed by integer
// index. Fanin lists hold literal indices only; there are no back
// pointers and no shared ownership, matching the donor's raw-index
// discipline.
type MAIG struct {
	Objs    []Object
	NumIns  int
	NumOuts int
}

// NumObjs returns the total object count, including const, PIs, nodes and POs.
func (m *MAIG) NumObjs() int { return len(m.Objs) }

// FirstNode is the lowest internal-node object id.
func (m *MAIG) FirstNode() int { return 1 + m.NumIns }

// FirstPO is the lowest PO object id.
func (m *MAIG) FirstPO() int { return len(m.Objs) - m.NumOuts }

func (m *MAIG) IsConst(id int) bool { return id == 0 }
func (m *MAIG) IsPI(id int) bool    { return id >= 1 && id < 1+m.NumIns }
func (m *MAIG) IsNode(id int) bool  { return id >= m.FirstNode() && id < m.FirstPO() }
func (m *MAIG) IsPO(id int) bool    { return id >= m.FirstPO() && id < len(m.Objs) }

// New allocates an empty MAIG shell with const-0 and nIns PIs populated;
// internal nodes and POs are appended by the caller (From, Split, Canonicalize).
func New(nIns, nOuts int) *MAIG {
	m := &MAIG{NumIns: nIns, NumOuts: nOuts}
	m.Objs = make([]Object, 1+nIns, 1+nIns+nOuts+3*and2Estimate(nIns))
	m.Objs[0] = Object{Kind: KindConst}
	for i := 1; i <= nIns; i++ {
		m.Objs[i] = Object{Kind: KindPI}
	}
	return m
}

func and2Estimate(nIns int) int {
	// A conservative seed for nObjsAlloc headroom; grown on demand anyway.
	if nIns < 8 {
		return 16
	}
	return nIns * 4
}

// AddNode appends an internal node with the given (already canonical)
// fanin list and returns its positive literal.
func (m *MAIG) AddNode(fanins []Lit) Lit {
	id := len(m.Objs)
	m.Objs = append(m.Objs, Object{Kind: KindNode, Fanins: fanins})
	return Pos(id)
}

// AddPO appends a PO with the given single fanin literal.
func (m *MAIG) AddPO(fanin Lit) {
	m.Objs = append(m.Objs, Object{Kind: KindPO, Fanins: []Lit{fanin}})
}

// Outputs returns the fanin literal of every PO, in order.
func (m *MAIG) Outputs() []Lit {
	out := make([]Lit, m.NumOuts)
	for i := 0; i < m.NumOuts; i++ {
		out[i] = m.Objs[m.FirstPO()+i].Fanins[0]
	}
	return out
}

// AndCount returns the number of internal nodes with exactly two fanins
// (the two-input AND count the engine scores). Buffers (k=1) and
// constant nodes don't count; nodes with k>2 shouldn't exist outside a
// split/expand/share/reduce in-flight MAIG, but are counted as (k-1)
// two-input-AND equivalents for safety if encountered mid-transform.
func (m *MAIG) AndCount() int {
	n := 0
	for id := m.FirstNode(); id < m.FirstPO(); id++ {
		k := len(m.Objs[id].Fanins)
		if k >= 2 {
			n += k - 1
		}
	}
	return n
}

// Recount recomputes Refs for every object from scratch: the number of
// fanin-list occurrences of each variable across all internal nodes and POs.
func (m *MAIG) Recount() {
	for i := range m.Objs {
		m.Objs[i].Refs = 0
	}
	for id := m.FirstNode(); id < len(m.Objs); id++ {
		for _, l := range m.Objs[id].Fanins {
			m.Objs[l.Var()].Refs++
		}
	}
}

// CanonicalizeFanins sorts lits ascending, drops duplicates and literal 1
// (AND identity), and detects literal 0 or a complementary pair (forcing
// the whole conjunction to constant 0). It reports the resulting fanin
// list plus, if the conjunction collapsed to a constant, that literal.
func CanonicalizeFanins(lits []Lit) (fanins []Lit, constant Lit, isConst bool) {
	if len(lits) == 0 {
		return nil, LitTrue, true
	}
	sorted := append([]Lit(nil), lits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := make([]Lit, 0, len(sorted))
	for i, l := range sorted {
		if l.IsFalse() {
			return nil, LitFalse, true
		}
		if l.IsTrue() {
			continue
		}
		if i > 0 && l == sorted[i-1] {
			continue // duplicate
		}
		if len(out) > 0 && out[len(out)-1] == l.Neg() {
			return nil, LitFalse, true // complementary pair
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil, LitTrue, true
	}
	return out, 0, false
}

// ValidateTopology checks invariant 4 (every fanin literal refers to a
// strictly lower-indexed object) and invariant 3 (POs have exactly one
// fanin) across the whole graph. It does not simulate; callers combine it
// with functional-equivalence checks in tests.
func (m *MAIG) ValidateTopology() error {
	for id := m.FirstNode(); id < len(m.Objs); id++ {
		obj := m.Objs[id]
		if obj.Kind == KindPO && len(obj.Fanins) != 1 {
			return rwerr.Invalidf("PO %d has %d fanins, want 1", id, len(obj.Fanins))
		}
		if obj.Kind == KindNode && len(obj.Fanins) == 0 {
			return rwerr.Invalidf("node %d has empty fanin list", id)
		}
		for i, l := range obj.Fanins {
			if l.Var() >= id {
				return rwerr.Invalidf("object %d fanin %d refers to non-lower object %d", id, i, l.Var())
			}
			if i > 0 && obj.Fanins[i-1] >= l {
				return rwerr.Invalidf("object %d fanin list not strictly ascending at %d", id, i)
			}
		}
	}
	return nil
}

// Clone deep-copies the MAIG (fanin slices included) so callers can
// mutate the copy without affecting the original — used by the engine
// to try a transformation against a pool member without corrupting it
// until the result is accepted.
func (m *MAIG) Clone() *MAIG {
	c := &MAIG{NumIns: m.NumIns, NumOuts: m.NumOuts}
	c.Objs = make([]Object, len(m.Objs))
	for i, o := range m.Objs {
		c.Objs[i] = Object{Kind: o.Kind, Refs: o.Refs}
		if len(o.Fanins) > 0 {
			c.Objs[i].Fanins = append([]Lit(nil), o.Fanins...)
		}
	}
	return c
}
