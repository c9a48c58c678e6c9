package ir

import (
	"github.com/oisee/hdlsim/pkg/simtype"
	"github.com/oisee/hdlsim/pkg/value"
)

// Edge selects which level transition activates a subscriber.
type Edge int

const (
	AnyEdge Edge = iota
	PosEdge
	NegEdge
)

func (e Edge) String() string {
	switch e {
	case PosEdge:
		return "posedge"
	case NegEdge:
		return "negedge"
	default:
		return "anyedge"
	}
}

// Subscriber is anything a signal's activation lists can hold: a
// Behavior or a Code node. The signal engine flips Activated on and
// reads Enabled before dispatch; it never owns the subscriber.
type Subscriber interface {
	HierarchyNode
	IsEnabled() bool
	IsActivated() bool
	SetActivated(bool)
}

// Signal is a dense-id node carrying a current (committed) value and
// a future (tentative) value, plus the three edge-keyed activation
// lists used by the signal/event engine.
type Signal struct {
	named

	ID     uint64
	Type   simtype.Type
	Cur    *value.Value
	Future *value.Value

	// Fading is true from the start of a time step until the first
	// write that step; while true, writes use copy (a 'z' driver may
	// still win) instead of copy_no_z.
	Fading bool

	Any    []Subscriber
	Pos    []Subscriber
	Neg    []Subscriber

	// ReadPort/WritePort are the host-language port API's hook points
	// (spec §6); nil unless a front end installs them. The core never
	// calls these itself — they exist so an external collaborator can
	// observe or drive a signal without reaching into the engine.
	ReadPort  func() uint64
	WritePort func(uint64)
}

func newSignal(id uint64, name string, t simtype.Type, owner HierarchyNode) *Signal {
	s := &Signal{
		ID:     id,
		Type:   t,
		Cur:    value.New(t, false),
		Future: value.New(t, false),
		Fading: true,
	}
	s.name, s.owner = name, owner
	return s
}

// Subscribe registers sub on the activation list matching edge.
func (s *Signal) Subscribe(edge Edge, sub Subscriber) {
	switch edge {
	case PosEdge:
		s.Pos = append(s.Pos, sub)
	case NegEdge:
		s.Neg = append(s.Neg, sub)
	default:
		s.Any = append(s.Any, sub)
	}
}

// Event pairs an edge with the signal it watches; behaviors carry a
// sensitivity list of these.
type Event struct {
	Edge   Edge
	Signal *Signal
}
