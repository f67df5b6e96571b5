package lower

import (
	"fmt"
	"strings"

	"conceptc/database"
	"conceptc/registry"
	"conceptc/resolve"
	"conceptc/typecheck"
)

// The host's body-rewriting pass hands this package bound call trees. Every
// expression is a database node so resolution facts (resolved witness,
// errors) attach to the call they describe.

type Expr interface {
	database.Node
	expr()
}

// Body is one method body: the unit of dictionary hoisting. Requires lists
// the capabilities the body's own generic signature demands; their abstract
// witnesses are in scope while binding the body. Locals owned by the body
// are released with it.
type Body struct {
	Name       string
	Params     []string
	Requires   []*resolve.Abstract
	Locals     []*Local
	Statements []Expr
	Facts      *database.Facts
}

func (node *Body) GetFacts() *database.Facts {
	return node.Facts
}

// Local is a body-scoped local. Lowering creates one per concrete witness,
// holding its dictionary value.
type Local struct {
	Name  string
	Value Expr
	Facts *database.Facts
}

func (node *Local) GetFacts() *database.Facts {
	return node.Facts
}

type CallExpr struct {
	Receiver  Expr
	Member    *registry.MemberNode
	Arguments []Expr
	Facts     *database.Facts
}

func (node *CallExpr) GetFacts() *database.Facts { return node.Facts }
func (node *CallExpr) expr()                     {}

// ConceptRefExpr is a capability-qualified receiver as bound upstream: the
// call names a concept at type arguments and awaits witness resolution.
type ConceptRefExpr struct {
	Concept   *registry.ConceptNode
	Arguments []typecheck.Type
	Facts     *database.Facts
}

func (node *ConceptRefExpr) GetFacts() *database.Facts { return node.Facts }
func (node *ConceptRefExpr) expr()                     {}

// WitnessExpr is a type-denoting receiver carrying its resolved witness; it
// qualifies the enclosing call for dictionary rewriting.
type WitnessExpr struct {
	Witness resolve.Witness
	Facts   *database.Facts
}

func (node *WitnessExpr) GetFacts() *database.Facts { return node.Facts }
func (node *WitnessExpr) expr()                     {}

type LocalExpr struct {
	Local *Local
	Facts *database.Facts
}

func (node *LocalExpr) GetFacts() *database.Facts { return node.Facts }
func (node *LocalExpr) expr()                     {}

// ParamExpr reads a parameter of the enclosing body, including the
// dictionary parameters generic functions receive for their required
// capabilities.
type ParamExpr struct {
	Name  string
	Facts *database.Facts
}

func (node *ParamExpr) GetFacts() *database.Facts { return node.Facts }
func (node *ParamExpr) expr()                     {}

type NameExpr struct {
	Name  string
	Facts *database.Facts
}

func (node *NameExpr) GetFacts() *database.Facts { return node.Facts }
func (node *NameExpr) expr()                     {}

// DictExpr constructs the runtime dictionary value for a witness. Lowering
// schedules exactly one per witness per body, as the value of the hoisted
// local.
type DictExpr struct {
	Witness resolve.Witness
	Facts   *database.Facts
}

func (node *DictExpr) GetFacts() *database.Facts { return node.Facts }
func (node *DictExpr) expr()                     {}

func init() {
	database.HideNode[*WitnessExpr]()
	database.HideNode[*LocalExpr]()
	database.HideNode[*ParamExpr]()
	database.HideNode[*NameExpr]()
	database.HideNode[*DictExpr]()
	database.HideNode[*Local]()
}

// Walk visits an expression tree preorder.
func Walk(expr Expr, f func(Expr)) {
	f(expr)

	switch expr := expr.(type) {
	case *CallExpr:
		Walk(expr.Receiver, f)
		for _, argument := range expr.Arguments {
			Walk(argument, f)
		}
	case *LocalExpr:
		if expr.Local.Value != nil {
			Walk(expr.Local.Value, f)
		}
	}
}

func DisplayExpr(expr Expr) string {
	switch expr := expr.(type) {
	case *CallExpr:
		arguments := make([]string, len(expr.Arguments))
		for i, argument := range expr.Arguments {
			arguments[i] = DisplayExpr(argument)
		}

		return fmt.Sprintf("%s.%s(%s)", DisplayExpr(expr.Receiver), expr.Member.Name, strings.Join(arguments, ", "))
	case *ConceptRefExpr:
		return fmt.Sprintf("<%s>", registry.CapabilityKey(expr.Concept, expr.Arguments))
	case *WitnessExpr:
		return fmt.Sprintf("<%s>", expr.Witness.Display())
	case *LocalExpr:
		return expr.Local.Name
	case *ParamExpr:
		return expr.Name
	case *NameExpr:
		return expr.Name
	case *DictExpr:
		return fmt.Sprintf("dict(%s)", expr.Witness.Display())
	default:
		panic(fmt.Sprintf("invalid expression: %T", expr))
	}
}

func DisplayBody(body *Body) string {
	var s strings.Builder

	for _, local := range body.Locals {
		s.WriteString(fmt.Sprintf("%s := %s; ", local.Name, DisplayExpr(local.Value)))
	}

	for i, statement := range body.Statements {
		if i > 0 {
			s.WriteString("; ")
		}

		s.WriteString(DisplayExpr(statement))
	}

	return s.String()
}

// LoweredFact records a body's lowered form for fact dumps.
type LoweredFact struct {
	Body *Body
}

func (fact LoweredFact) String() string {
	return fmt.Sprintf("lowers to [%s]", DisplayBody(fact.Body))
}
