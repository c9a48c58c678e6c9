// Package ir implements the simulation IR: tagged nodes for system
// types, scopes, signals, behaviors, blocks, statements, expressions
// and references, plus the builder API that an external front end
// uses to assemble them during elaboration.
//
// Nodes dispatch by Go interface rather than by an untyped kind tag —
// one interface per node category (Statement, Expression, Reference)
// — matching the re-architecture called for in the source notes:
// tagged sum types per category instead of raw pointer casts between
// a single Object union.
package ir

// HierarchyNode is implemented by every node that contributes a
// segment to the dotted hierarchy path used for waveform scoping:
// system types, scopes, system instances, blocks and signals. Owner
// returns nil at the root.
type HierarchyNode interface {
	Name() string
	Owner() HierarchyNode
}

// named is embedded by concrete node types to supply the Name/Owner
// half of HierarchyNode and the single owning back-reference every
// node carries per the data model's ownership-tree invariant.
type named struct {
	name  string
	owner HierarchyNode
}

func (n *named) Name() string        { return n.name }
func (n *named) Owner() HierarchyNode { return n.owner }
func (n *named) setOwner(o HierarchyNode) { n.owner = o }

// FullName walks the owner chain from n to the root, joining segment
// names with '.'. A nil node yields "".
func FullName(n HierarchyNode) string {
	if n == nil {
		return ""
	}
	segs := make([]string, 0, 4)
	for cur := n; cur != nil; cur = cur.Owner() {
		if cur.Name() != "" {
			segs = append(segs, cur.Name())
		}
	}
	// segs was collected root-ward; reverse into hierarchy order.
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}
