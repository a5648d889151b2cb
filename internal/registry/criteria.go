package registry

import (
	"fmt"
	"strings"

	"github.com/finsona-dev/finsona/internal/signal"
)

// Comparator is the closed set of leaf comparison operators.
type Comparator string

const (
	CompLT Comparator = "<"
	CompLE Comparator = "<="
	CompGT Comparator = ">"
	CompGE Comparator = ">="
	CompEQ Comparator = "=="
	CompNE Comparator = "!="
)

// ordering reports whether the comparator requires numeric operands.
func (c Comparator) ordering() bool {
	switch c {
	case CompLT, CompLE, CompGT, CompGE:
		return true
	}
	return false
}

func (c Comparator) known() bool {
	switch c {
	case CompLT, CompLE, CompGT, CompGE, CompEQ, CompNE:
		return true
	}
	return false
}

// Expr is a persona criteria expression: a leaf comparison or an
// AND/OR node. The node set is closed so evaluation stays a small
// auditable interpreter rather than reflective dispatch.
type Expr interface {
	// Leaves appends every leaf in declaration order.
	Leaves(out []Leaf) []Leaf
	describe() string
}

// Leaf compares one signal against a threshold.
type Leaf struct {
	Signal    string
	Op        Comparator
	Threshold signal.Value
}

// Satisfied evaluates the leaf against an observed value. An absent
// observation never satisfies any comparison, and values of different
// kinds never compare as equal or ordered.
func (l Leaf) Satisfied(observed signal.Value) bool {
	if observed.IsAbsent() || observed.Kind() != l.Threshold.Kind() {
		return false
	}
	switch observed.Kind() {
	case signal.KindNumber:
		obs, _ := observed.AsNumber()
		want, _ := l.Threshold.AsNumber()
		switch l.Op {
		case CompLT:
			return obs < want
		case CompLE:
			return obs <= want
		case CompGT:
			return obs > want
		case CompGE:
			return obs >= want
		case CompEQ:
			return obs == want
		case CompNE:
			return obs != want
		}
	case signal.KindBool, signal.KindCategory:
		switch l.Op {
		case CompEQ:
			return observed.Equal(l.Threshold)
		case CompNE:
			return !observed.Equal(l.Threshold)
		}
	}
	return false
}

// Leaves implements Expr.
func (l Leaf) Leaves(out []Leaf) []Leaf {
	return append(out, l)
}

func (l Leaf) describe() string {
	return fmt.Sprintf("%s %s %s", l.Signal, l.Op, l.Threshold)
}

// All is satisfied when every child is satisfied.
type All struct {
	Children []Expr
}

// Leaves implements Expr.
func (a All) Leaves(out []Leaf) []Leaf {
	for _, c := range a.Children {
		out = c.Leaves(out)
	}
	return out
}

func (a All) describe() string {
	parts := make([]string, len(a.Children))
	for i, c := range a.Children {
		parts[i] = c.describe()
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// Any is satisfied when at least one child is satisfied.
type Any struct {
	Children []Expr
}

// Leaves implements Expr.
func (a Any) Leaves(out []Leaf) []Leaf {
	for _, c := range a.Children {
		out = c.Leaves(out)
	}
	return out
}

func (a Any) describe() string {
	parts := make([]string, len(a.Children))
	for i, c := range a.Children {
		parts[i] = c.describe()
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Describe renders an expression for audit output.
func Describe(e Expr) string {
	return e.describe()
}
