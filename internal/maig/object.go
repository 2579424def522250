package maig

// Kind classifies an object by its position in the contiguous id range:
// const-0, PI, internal node, or PO.
type Kind uint8

const (
	KindConst Kind = iota
	KindPI
	KindNode
	KindPO
)

// Object is one MAIG node, indexed by its position in MAIG.Objs.
type Object struct {
	Kind Kind
	// Fanins is the ordered, ascending-sorted list of fanin literals. Empty
	// for const/PI, exactly one for PO, one or more for an internal node.
	Fanins []Lit
	// Refs is the external reference count: the number of fanin-list
	// occurrences of this object's variable across every other node and PO.
	Refs int
}

// IsBuffer reports whether a node's fanin list has degenerated to a
// single literal (acts as a buffer/inverter).
func (o *Object) IsBuffer() bool {
	return o.Kind == KindNode && len(o.Fanins) == 1
}

// IsConstNode reports whether an internal node's fanin list has been set
// to a single constant literal (0 or 1), per the const-node convention.
func (o *Object) IsConstNode() bool {
	return o.Kind == KindNode && len(o.Fanins) == 1 && o.Fanins[0].IsConst()
}
