package maig

import (
	"testing"

	"github.com/kr/pretty"
)

func lit(objID int, compl bool) Lit { return NewLit(objID, compl) }

func TestCanonicalizeFaninsDropsOneAndAbsorbsConst(t *testing.T) {
	fanins, constant, isConst := CanonicalizeFanins([]Lit{lit(2, false), LitTrue, lit(3, false)})
	if isConst {
		t.Fatalf("unexpected constant %v", constant)
	}
	if len(fanins) != 2 || fanins[0] != lit(2, false) || fanins[1] != lit(3, false) {
		t.Fatalf("fanins = %v, want [2, 3] with literal-1 dropped", fanins)
	}
}

func TestCanonicalizeFaninsComplementaryPairIsConstZero(t *testing.T) {
	_, constant, isConst := CanonicalizeFanins([]Lit{lit(2, false), lit(2, true)})
	if !isConst || constant != LitFalse {
		t.Fatalf("complementary pair should collapse to const-0, got isConst=%v constant=%v", isConst, constant)
	}
}

func TestCanonicalizeFaninsLiteralZeroIsConstZero(t *testing.T) {
	_, constant, isConst := CanonicalizeFanins([]Lit{LitFalse, lit(5, false)})
	if !isConst || constant != LitFalse {
		t.Fatal("a literal-0 fanin forces the whole conjunction to const-0")
	}
}

func TestCanonicalizeFaninsEmptyIsConstOne(t *testing.T) {
	_, constant, isConst := CanonicalizeFanins(nil)
	if !isConst || constant != LitTrue {
		t.Fatal("an empty fanin list is the identity of AND: const-1")
	}
}

// TestFromToTwoInputRoundTrip builds PO = a AND b and checks the MAIG
// survives a FromTwoInput/ToTwoInput round trip unchanged in shape.
func TestFromToTwoInputRoundTrip(t *testing.T) {
	m, err := FromTwoInput(2, [][2]Lit{{lit(1, false), lit(2, false)}}, []Lit{lit(3, false)})
	if err != nil {
		t.Fatalf("FromTwoInput: %v", err)
	}
	if err := m.ValidateTopology(); err != nil {
		t.Fatalf("ValidateTopology: %v", err)
	}
	andFanins, outputs, err := m.ToTwoInput()
	if err != nil {
		t.Fatalf("ToTwoInput: %v", err)
	}
	if len(andFanins) != 1 || len(outputs) != 1 {
		t.Fatalf("got %d AND gates and %d outputs, want 1 and 1", len(andFanins), len(outputs))
	}
}

// TestCanonicalizeStrashesRepeatedSubexpression implements the classic
// rewrite scenario: (a AND b) AND (a AND b) collapses, via AND(x,x)=x
// constant propagation plus strashing, to a single AND node.
func TestCanonicalizeStrashesRepeatedSubexpression(t *testing.T) {
	a, b := lit(1, false), lit(2, false)
	m, err := FromTwoInput(2, [][2]Lit{
		{a, b}, // object 3
		{a, b}, // object 4, structurally identical to 3
		{lit(3, false), lit(4, false)}, // object 5
	}, []Lit{lit(5, false)})
	if err != nil {
		t.Fatalf("FromTwoInput: %v", err)
	}
	canon, err := Canonicalize(m)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got := canon.AndCount(); got != 1 {
		t.Fatalf("AndCount = %d, want 1\n%# v", got, pretty.Formatter(canon.Objs))
	}
}

func TestCanonicalizeDropsDanglingNodes(t *testing.T) {
	a, b := lit(1, false), lit(2, false)
	m, err := FromTwoInput(2, [][2]Lit{
		{a, b}, // object 3, reachable
		{a, a}, // object 4, dangling: nothing references it
	}, []Lit{lit(3, false)})
	if err != nil {
		t.Fatalf("FromTwoInput: %v", err)
	}
	canon, err := Canonicalize(m)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got := canon.AndCount(); got != 1 {
		t.Fatalf("AndCount = %d, want 1 (dangling node 4 should be pruned)", got)
	}
}

func TestCanonicalizeDetectsCombinationalLoop(t *testing.T) {
	// Build a MAIG by hand with a direct cycle: object 1 refers to itself.
	m := New(0, 1)
	m.Objs = append(m.Objs, Object{Kind: KindNode, Fanins: []Lit{Pos(1)}})
	m.AddPO(Pos(1))
	if _, err := Canonicalize(m); err == nil {
		t.Fatal("expected a combinational-loop error")
	}
}

func TestRenumberRestoresTopologicalOrder(t *testing.T) {
	// Hand-build a graph where a low-id node (3) references a higher-id
	// node (4), the forward-reference shape Share produces mid-pipeline.
	m := New(2, 1)
	m.Objs = append(m.Objs,
		Object{Kind: KindNode, Fanins: []Lit{Pos(4)}}, // object 3: forward ref to 4
		Object{Kind: KindNode, Fanins: []Lit{lit(1, false), lit(2, false)}}, // object 4
	)
	m.AddPO(Pos(3))

	out, err := Renumber(m)
	if err != nil {
		t.Fatalf("Renumber: %v", err)
	}
	if err := out.ValidateTopology(); err != nil {
		t.Fatalf("renumbered graph fails topology: %v", err)
	}
}
