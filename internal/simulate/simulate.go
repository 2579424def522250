// Package simulate implements the per-object truth-table simulator and
// observability care-set computation the Expand and Reduce
// transformations depend on.
package simulate

import (
	"aigrewrite/internal/bitvec"
	rwerr "aigrewrite/internal/errors"
	"aigrewrite/internal/intvec"
	"aigrewrite/internal/maig"
)

// Simulator owns the three truth-table slabs described by the design:
// cur (the live, always-current function of every object), scratch (a
// perturbation buffer reused by CareSet), and golden (the PO functions
// frozen at construction time, the oracle CheckEquivalence compares
// against). It is bound to one MAIG and must be rebuilt (New) whenever
// the object count changes in a way that isn't a plain in-place fanin
// edit — Split/Share/Canonicalize each produce a fresh MAIG, so each
// gets its own Simulator, while Expand and Reduce edit fanin lists in
// place through the Simulator they are given.
type Simulator struct {
	m       *maig.MAIG
	nWords  int
	cur     []bitvec.BitVec
	scratch []bitvec.BitVec
	golden  []bitvec.BitVec // one per PO, frozen at New

	inTFO []bool
	vTfo  *intvec.IntVec
}

// New builds a Simulator over m, simulating every object bottom-up from
// the canonical PI variable tables and freezing the resulting PO values
// as golden.
func New(m *maig.MAIG) *Simulator {
	nW := bitvec.Words(m.NumIns)
	s := &Simulator{
		m:      m,
		nWords: nW,
		inTFO:  make([]bool, len(m.Objs)),
		vTfo:   intvec.New(len(m.Objs)),
	}
	s.cur = make([]bitvec.BitVec, len(m.Objs))
	s.scratch = make([]bitvec.BitVec, len(m.Objs))
	for i := range s.cur {
		s.cur[i] = bitvec.New(nW)
		s.scratch[i] = bitvec.New(nW)
	}
	for i := 1; i <= m.NumIns; i++ {
		s.cur[i].SetVarTable(i - 1)
	}
	s.SimAll()

	s.golden = make([]bitvec.BitVec, m.NumOuts)
	for i := 0; i < m.NumOuts; i++ {
		s.golden[i] = bitvec.New(nW)
		s.golden[i].CopyFrom(s.cur[m.FirstPO()+i])
	}
	return s
}

// simFanins computes the AND of a fanin list into dst: copy-inverting
// the first literal, then and-not/and-ing the rest, each honoring its
// own polarity via get, which resolves a variable to the table to read.
func simFanins(fanins []maig.Lit, get func(int) bitvec.BitVec, dst bitvec.BitVec) {
	first := fanins[0]
	dst.CopyPolarity(get(first.Var()), first.Pol())
	for _, fl := range fanins[1:] {
		dst.AndPolarity(get(fl.Var()), fl.Pol())
	}
}

func (s *Simulator) curGet(v int) bitvec.BitVec { return s.cur[v] }

func (s *Simulator) simNodeCur(id int) {
	obj := s.m.Objs[id]
	if len(obj.Fanins) == 0 {
		return // const, PI: table already set at New
	}
	simFanins(obj.Fanins, s.curGet, s.cur[id])
}

// SimAll resimulates every internal node and PO from scratch, in
// ascending (topological) object order.
func (s *Simulator) SimAll() {
	for id := s.m.FirstNode(); id < len(s.m.Objs); id++ {
		s.simNodeCur(id)
	}
}

// Value returns the live cur table for object id. Callers must treat it
// as read-only; it is invalidated by the next Resimulate.
func (s *Simulator) Value(id int) bitvec.BitVec { return s.cur[id] }

// Words returns the per-object truth table width in 64-bit words.
func (s *Simulator) Words() int { return s.nWords }

// POValue returns the live cur table for PO index i.
func (s *Simulator) POValue(i int) bitvec.BitVec { return s.cur[s.m.FirstPO()+i] }

// InTFO reports whether object id was found in the transitive fanout of
// the most recent CareSet or Resimulate target.
func (s *Simulator) InTFO(id int) bool { return s.inTFO[id] }

// collectTFO marks, for every object downstream of target, whether it is
// reached by propagating through fanins from target (equivalently: its
// transitive fanout). Because fanins always reference strictly lower
// ids, a single ascending pass suffices: an object is in TFO iff any of
// its own fanins is target or already marked in TFO.
func (s *Simulator) collectTFO(target int) {
	for i := range s.inTFO {
		s.inTFO[i] = false
	}
	s.vTfo.Clear()
	for id := target + 1; id < len(s.m.Objs); id++ {
		obj := s.m.Objs[id]
		if obj.Kind != maig.KindNode && obj.Kind != maig.KindPO {
			continue
		}
		reached := false
		for _, fl := range obj.Fanins {
			v := fl.Var()
			if v == target || s.inTFO[v] {
				reached = true
				break
			}
		}
		if reached {
			s.inTFO[id] = true
			s.vTfo.Push(id)
		}
	}
}

// TFOOrder returns the ascending object ids found in TFO by the most
// recent CareSet or Resimulate call, excluding target itself.
func (s *Simulator) TFOOrder() []int { return s.vTfo.Slice() }

// CareSet computes the observability care set of target: the input
// minterms on which target's value affects at least one PO. It returns
// the target's current function f (a snapshot, safe to retain) and the
// care set. It perturbs target's complement into the scratch slab,
// propagates the perturbation through the TFO (reading scratch for TFO
// members, cur for everything else, so un-perturbed upstream values are
// unaffected), and accumulates the XOR against the live PO value at
// every PO reached.
func (s *Simulator) CareSet(target int) (f bitvec.BitVec, care bitvec.BitVec) {
	s.collectTFO(target)

	f = bitvec.New(s.nWords)
	f.CopyFrom(s.cur[target])

	s.scratch[target].CopyInvertFrom(s.cur[target])

	get := func(v int) bitvec.BitVec {
		if v == target || s.inTFO[v] {
			return s.scratch[v]
		}
		return s.cur[v]
	}

	care = bitvec.New(s.nWords)
	for i := 0; i < s.vTfo.Len(); i++ {
		id := s.vTfo.At(i)
		obj := s.m.Objs[id]
		simFanins(obj.Fanins, get, s.scratch[id])
		if obj.Kind == maig.KindPO {
			care.OrXor(s.cur[id], s.scratch[id])
		}
	}
	return f, care
}

// Resimulate recomputes target's cur value and propagates it through the
// TFO into cur (a real update, unlike CareSet's scratch probe). Callers
// invoke it after committing a structural edit to target's fanin list.
func (s *Simulator) Resimulate(target int) {
	s.simNodeCur(target)
	s.collectTFO(target)
	for i := 0; i < s.vTfo.Len(); i++ {
		s.simNodeCur(s.vTfo.At(i))
	}
}

// CheckEquivalence compares every PO's live cur value against the frozen
// golden snapshot taken at New, returning a SimulationMismatch error on
// the first PO that disagrees. It never mutates the golden oracle.
func (s *Simulator) CheckEquivalence() error {
	for i := 0; i < s.m.NumOuts; i++ {
		if !bitvec.Equal(s.cur[s.m.FirstPO()+i], s.golden[i]) {
			return rwerr.Mismatch(i, -1, "PO %d diverged from its golden function after resimulation", i)
		}
	}
	return nil
}

// VerifyEquivalence builds a fresh Simulator over each of orig and
// transformed, full-simulates them from their own PI tables, and
// compares every PO function bit for bit. It is the final outer check
// the engine runs after Canonicalize, independent of any per-transform
// Resimulate bookkeeping, and the E6-style exhaustive check tests use
// directly.
func VerifyEquivalence(orig, transformed *maig.MAIG) error {
	if orig.NumIns != transformed.NumIns {
		return rwerr.Invalidf("PI count changed: %d vs %d", orig.NumIns, transformed.NumIns)
	}
	if orig.NumOuts != transformed.NumOuts {
		return rwerr.Invalidf("PO count changed: %d vs %d", orig.NumOuts, transformed.NumOuts)
	}
	a := New(orig)
	b := New(transformed)
	for i := 0; i < orig.NumOuts; i++ {
		if !bitvec.Equal(a.POValue(i), b.POValue(i)) {
			return rwerr.Mismatch(i, -1, "PO %d not equivalent after rewrite", i)
		}
	}
	return nil
}
