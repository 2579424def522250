package intvec

import (
	"math/rand"
	"testing"
)

func TestPushAndSlice(t *testing.T) {
	v := New(0)
	v.Push(3)
	v.Push(1)
	v.Push(2)
	if v.Len() != 3 {
		t.Fatalf("Len = %d, want 3", v.Len())
	}
	if got := v.Slice(); got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("Slice = %v, want [3 1 2]", got)
	}
}

func TestPushSortedKeepsAscending(t *testing.T) {
	v := New(0)
	for _, x := range []int{5, 1, 4, 2, 3} {
		v.PushSorted(x)
	}
	want := []int{1, 2, 3, 4, 5}
	for i, x := range want {
		if v.At(i) != x {
			t.Fatalf("At(%d) = %d, want %d (full: %v)", i, v.At(i), x, v.Slice())
		}
	}
}

func TestContainsAndRemove(t *testing.T) {
	v := FromSlice([]int{1, 2, 3})
	if !v.Contains(2) {
		t.Fatal("expected 2 to be present")
	}
	if !v.Remove(2) {
		t.Fatal("Remove should report success")
	}
	if v.Contains(2) {
		t.Fatal("2 should be gone")
	}
	if v.Remove(99) {
		t.Fatal("removing an absent value should report false")
	}
}

func TestRemoveAtAndFill(t *testing.T) {
	v := FromSlice([]int{1, 2, 3})
	v.RemoveAt(1)
	if v.Len() != 2 || v.At(0) != 1 || v.At(1) != 3 {
		t.Fatalf("RemoveAt(1) left %v, want [1 3]", v.Slice())
	}
	v.Fill(7)
	if v.At(0) != 7 || v.At(1) != 7 {
		t.Fatalf("Fill(7) left %v", v.Slice())
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	v := FromSlice([]int{1, 2, 3, 4, 5})
	rng := rand.New(rand.NewSource(42))
	v.Shuffle(rng)
	seen := make(map[int]bool)
	for _, x := range v.Slice() {
		seen[x] = true
	}
	for i := 1; i <= 5; i++ {
		if !seen[i] {
			t.Fatalf("shuffle lost element %d: %v", i, v.Slice())
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	v := FromSlice([]int{1, 2, 3})
	c := v.Clone()
	c.Set(0, 99)
	if v.At(0) == 99 {
		t.Fatal("mutating the clone affected the original")
	}
}
