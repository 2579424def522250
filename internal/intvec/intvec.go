// Package intvec implements a growable integer sequence with the
// sort-on-insert, random-shuffle, remove, and fill operations the MAIG
// fanin lists and TFO/candidate lists need.
package intvec

import "math/rand"

// IntVec is a growable slice of ints, append-friendly like the teacher's
// bytecode.Chunk byte buffer.
type IntVec struct {
	data []int
}

// New returns an empty IntVec with capacity hint cap.
func New(capHint int) *IntVec {
	return &IntVec{data: make([]int, 0, capHint)}
}

// FromSlice wraps an existing slice without copying.
func FromSlice(s []int) *IntVec {
	return &IntVec{data: s}
}

// Len returns the number of elements.
func (v *IntVec) Len() int { return len(v.data) }

// At returns element i.
func (v *IntVec) At(i int) int { return v.data[i] }

// Set overwrites element i.
func (v *IntVec) Set(i, x int) { v.data[i] = x }

// Slice returns the backing slice (callers must not retain it across
// further mutation of v).
func (v *IntVec) Slice() []int { return v.data }

// Push appends x.
func (v *IntVec) Push(x int) {
	v.data = append(v.data, x)
}

// PushSorted inserts x keeping data in ascending order (sort-on-insert).
func (v *IntVec) PushSorted(x int) {
	i := 0
	for i < len(v.data) && v.data[i] < x {
		i++
	}
	v.data = append(v.data, 0)
	copy(v.data[i+1:], v.data[i:])
	v.data[i] = x
}

// Contains reports whether x is present.
func (v *IntVec) Contains(x int) bool {
	for _, y := range v.data {
		if y == x {
			return true
		}
	}
	return false
}

// Remove deletes the first occurrence of x, preserving order. Reports
// whether anything was removed.
func (v *IntVec) Remove(x int) bool {
	for i, y := range v.data {
		if y == x {
			v.data = append(v.data[:i], v.data[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAt deletes the element at index i, preserving order.
func (v *IntVec) RemoveAt(i int) {
	v.data = append(v.data[:i], v.data[i+1:]...)
}

// Fill sets every element to x.
func (v *IntVec) Fill(x int) {
	for i := range v.data {
		v.data[i] = x
	}
}

// Clear empties the vector without releasing capacity.
func (v *IntVec) Clear() {
	v.data = v.data[:0]
}

// Shuffle randomizes element order using the supplied PRNG (never the
// package-global one — the engine's single explicit PRNG is threaded
// through every caller).
func (v *IntVec) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(v.data), func(i, j int) {
		v.data[i], v.data[j] = v.data[j], v.data[i]
	})
}

// Clone returns an independent copy.
func (v *IntVec) Clone() *IntVec {
	d := make([]int, len(v.data))
	copy(d, v.data)
	return &IntVec{data: d}
}
