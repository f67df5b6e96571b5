package lower

import (
	"fmt"

	"conceptc/database"
	"conceptc/resolve"
)

// lowerer is the per-body rewriting state: one dictionary local per witness
// identity. A body is processed by exactly one goroutine, so the map needs
// no locking and never outlives the body.
type lowerer struct {
	locals  map[string]*Local
	created []*Local
	counter int
}

// LowerBody rewrites every qualifying call in a body against a concrete
// runtime dictionary. A call qualifies iff the member is non-static and the
// receiver denotes a type (a resolved witness); everything else, including
// calls marked errored by resolution, is returned untouched. The first use
// of a witness hoists one dictionary-construction local into the body; later
// uses reuse it. Lowering an already-lowered body yields an identical body.
func LowerBody(body *Body) *Body {
	l := &lowerer{locals: map[string]*Local{}}

	// A previously lowered body already carries dictionary locals; reuse
	// them so re-lowering never duplicates a construction.
	for _, local := range body.Locals {
		if dict, ok := local.Value.(*DictExpr); ok {
			l.locals[dict.Witness.Key()] = local
			l.counter++
		}
	}

	statements := make([]Expr, len(body.Statements))
	for i, statement := range body.Statements {
		statements[i] = l.lower(statement)
	}

	return &Body{
		Name:       body.Name,
		Params:     body.Params,
		Requires:   body.Requires,
		Locals:     append(body.Locals, l.created...),
		Statements: statements,
		Facts:      body.Facts,
	}
}

func (l *lowerer) lower(expr Expr) Expr {
	call, ok := expr.(*CallExpr)
	if !ok {
		return expr
	}

	arguments := make([]Expr, len(call.Arguments))
	for i, argument := range call.Arguments {
		arguments[i] = l.lower(argument)
	}

	receiver := l.lower(call.Receiver)

	if witness, ok := receiver.(*WitnessExpr); ok && !call.Member.Static && !resolve.IsErrored(call) {
		receiver = l.read(witness)
	}

	return &CallExpr{
		Receiver:  receiver,
		Member:    call.Member,
		Arguments: arguments,
		Facts:     call.Facts,
	}
}

// read converts a witness into a storage location: concrete witnesses read
// the body's hoisted dictionary local, abstract witnesses read the enclosing
// function's dictionary parameter directly.
func (l *lowerer) read(witness *WitnessExpr) Expr {
	span := database.GetSpanFact(witness)

	switch w := witness.Witness.(type) {
	case *resolve.Abstract:
		return &ParamExpr{
			Name:  w.Parameter,
			Facts: database.NewFacts(span),
		}
	case *resolve.Concrete:
		local, ok := l.locals[w.Key()]
		if !ok {
			local = &Local{
				Name: fmt.Sprintf("dict%d", l.counter),
				Value: &DictExpr{
					Witness: w,
					Facts:   database.NewFacts(span),
				},
				Facts: database.NewFacts(span),
			}
			l.counter++

			l.locals[w.Key()] = local
			l.created = append(l.created, local)
		}

		return &LocalExpr{
			Local: local,
			Facts: database.NewFacts(span),
		}
	default:
		panic(fmt.Sprintf("invalid witness: %T", witness.Witness))
	}
}
