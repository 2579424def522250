package share

import (
	"math/rand"
	"testing"

	"aigrewrite/internal/maig"
	"aigrewrite/internal/simulate"
)

func lit(objID int, compl bool) maig.Lit { return maig.NewLit(objID, compl) }

// buildRepeatedPair builds two nodes that both fan into the pair (a, b):
// object 4 = a AND b AND c, object 5 = a AND b AND d. The pair (a,b)
// repeats across both and should be extracted into a new shared node.
func buildRepeatedPair(t *testing.T) *maig.MAIG {
	t.Helper()
	a, b, c, d := lit(1, false), lit(2, false), lit(3, false), lit(4, false)
	m := maig.New(4, 2)
	m.Objs = append(m.Objs,
		maig.Object{Kind: maig.KindNode, Fanins: []maig.Lit{a, b, c}}, // object 5
		maig.Object{Kind: maig.KindNode, Fanins: []maig.Lit{a, b, d}}, // object 6
	)
	m.AddPO(maig.Pos(5))
	m.AddPO(maig.Pos(6))
	return m
}

func TestRunExtractsRepeatedPair(t *testing.T) {
	m := buildRepeatedPair(t)
	orig := m.Clone()
	rng := rand.New(rand.NewSource(11))

	out, extracted, err := Run(m, rng, 4)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if extracted != 1 {
		t.Fatalf("extracted = %d, want 1 (only one repeated pair exists)", extracted)
	}
	if err := out.ValidateTopology(); err != nil {
		t.Fatalf("ValidateTopology: %v", err)
	}
	if err := simulate.VerifyEquivalence(orig, out); err != nil {
		t.Fatalf("Share changed the function computed by the graph: %v", err)
	}
}

func TestRunIsNoOpWithoutRepeats(t *testing.T) {
	a, b, c, d := lit(1, false), lit(2, false), lit(3, false), lit(4, false)
	m := maig.New(4, 1)
	m.Objs = append(m.Objs, maig.Object{Kind: maig.KindNode, Fanins: []maig.Lit{a, b, c, d}})
	m.AddPO(maig.Pos(5))

	rng := rand.New(rand.NewSource(1))
	out, extracted, err := Run(m, rng, 4)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if extracted != 0 {
		t.Fatalf("extracted = %d, want 0 (no pair repeats)", extracted)
	}
	if out != m {
		t.Fatal("Run should return the same graph unchanged when nothing is extracted")
	}
}
