package expand

import (
	"math/rand"
	"testing"

	"aigrewrite/internal/maig"
	"aigrewrite/internal/simulate"
)

func lit(objID int, compl bool) maig.Lit { return maig.NewLit(objID, compl) }

// build3InBuffer wires PIs a, b, c with object 4 = a AND b,
// PO0 = object 4. PI c does not feed anything: c alone does not cover
// the onset, but it gives Expand candidates to consider without forcing
// a specific outcome.
func build3InBuffer(t *testing.T) *maig.MAIG {
	t.Helper()
	m, err := maig.FromTwoInput(3, [][2]maig.Lit{
		{lit(1, false), lit(2, false)}, // object 4: a AND b
	}, []maig.Lit{lit(4, false)})
	if err != nil {
		t.Fatalf("FromTwoInput: %v", err)
	}
	return m
}

func TestRunPreservesEquivalence(t *testing.T) {
	m := build3InBuffer(t)
	orig := m.Clone()
	sim := simulate.New(m)
	rng := rand.New(rand.NewSource(7))

	Run(m, sim, rng, 10)

	if err := sim.CheckEquivalence(); err != nil {
		t.Fatalf("simulator diverged from its own golden snapshot: %v", err)
	}
	if err := m.ValidateTopology(); err != nil {
		t.Fatalf("ValidateTopology: %v", err)
	}
	if err := simulate.VerifyEquivalence(orig, m); err != nil {
		t.Fatalf("Expand changed the function computed by the graph: %v", err)
	}
}

func TestRunRespectsCap(t *testing.T) {
	m := build3InBuffer(t)
	sim := simulate.New(m)
	rng := rand.New(rand.NewSource(3))

	added := Run(m, sim, rng, 0)
	if added != 0 {
		t.Fatalf("Run with nExpands=0 should add nothing, added %d", added)
	}
}
