package aiger

import (
	"bytes"
	"strings"
	"testing"

	"aigrewrite/internal/maig"
	"aigrewrite/internal/simulate"
)

func lit(objID int, compl bool) maig.Lit { return maig.NewLit(objID, compl) }

func TestWriteReadRoundTrip(t *testing.T) {
	orig, err := maig.FromTwoInput(3, [][2]maig.Lit{
		{lit(1, false), lit(2, false)},
		{lit(4, false), lit(3, true)},
	}, []maig.Lit{lit(5, false)})
	if err != nil {
		t.Fatalf("FromTwoInput: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, orig); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.NumIns != orig.NumIns || got.NumOuts != orig.NumOuts {
		t.Fatalf("NumIns/NumOuts mismatch: got %d/%d, want %d/%d", got.NumIns, got.NumOuts, orig.NumIns, orig.NumOuts)
	}
	if err := simulate.VerifyEquivalence(orig, got); err != nil {
		t.Fatalf("round-tripped graph not equivalent: %v", err)
	}
}

func TestReadRejectsLatches(t *testing.T) {
	header := "aig 3 2 1 1 1\n0\n"
	_, err := Read(strings.NewReader(header))
	if err == nil {
		t.Fatal("expected an error for a non-zero latch count")
	}
}

func TestReadRejectsMalformedHeader(t *testing.T) {
	_, err := Read(strings.NewReader("not an aiger header\n"))
	if err == nil {
		t.Fatal("expected an error for a malformed header")
	}
}
