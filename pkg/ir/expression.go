package ir

import (
	"github.com/oisee/hdlsim/pkg/simtype"
	"github.com/oisee/hdlsim/pkg/value"
)

// Expression is implemented by every expression-variant node. Like
// Statement, the marker is unexported so the set is closed to this
// package; pkg/eval dispatches on the concrete type with a type
// switch.
type Expression interface {
	isExpression()
}

// UnaryOp and BinaryOp name the resolved value-package function a
// Unary/Binary node calls; Builder.MakeUnary/MakeBinary resolve an
// operator symbol to one of these once, at construction time, so
// evaluation never re-dispatches on a symbol.
type UnaryOp func(src, dst *value.Value) *value.Value
type BinaryOp func(a, b, dst *value.Value) *value.Value

// Literal wraps a constant value as an expression.
type Literal struct {
	Value *value.Value
}

func (*Literal) isExpression() {}

// SignalRead reads a signal's current value. It is the expression
// counterpart of a bare signal Reference.
type SignalRead struct {
	Signal *Signal
}

func (*SignalRead) isExpression() {}

// Unary applies Op to Operand.
type Unary struct {
	Op      UnaryOp
	OpName  string
	Operand Expression
}

func (*Unary) isExpression() {}

// Binary applies Op to Left and Right.
type Binary struct {
	Op     BinaryOp
	OpName string
	Left   Expression
	Right  Expression
}

func (*Binary) isExpression() {}

// Select picks Choices[cond] at evaluation time, clamping an
// out-of-range index to the last choice.
type Select struct {
	Cond    Expression
	Choices []Expression
}

func (*Select) isExpression() {}

// Concat concatenates Values in Dir order.
type Concat struct {
	Dir    value.Dir
	Values []Expression
}

func (*Concat) isExpression() {}

// Cast converts Operand to Type.
type Cast struct {
	Operand Expression
	Type    simtype.Type
}

func (*Cast) isExpression() {}

// RefExpr adapts a Reference so it can be read as a value — covers
// reference-by-index/range/concat appearing on the right-hand side of
// an expression, per the data model's expression-variant list.
type RefExpr struct {
	Ref Reference
}

func (*RefExpr) isExpression() {}
