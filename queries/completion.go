package queries

import (
	"conceptc/complete"
	"conceptc/database"
)

func MissingMembers(db *database.Db, node database.Node, filter func(node database.Node) bool, f func(fact complete.MissingMembersFact)) {
	if fact, ok := database.GetFact[complete.MissingMembersFact](node); ok && len(fact) > 0 {
		f(fact)
	}
}

func ExcessMembers(db *database.Db, node database.Node, filter func(node database.Node) bool, f func(fact complete.ExcessMembersFact)) {
	if fact, ok := database.GetFact[complete.ExcessMembersFact](node); ok && len(fact) > 0 {
		f(fact)
	}
}

func ShimMismatches(db *database.Db, node database.Node, filter func(node database.Node) bool, f func(fact complete.ShimMismatchesFact)) {
	if fact, ok := database.GetFact[complete.ShimMismatchesFact](node); ok && len(fact) > 0 {
		f(fact)
	}
}

func DefaultStructMalformed(db *database.Db, node database.Node, filter func(node database.Node) bool, f func(struct{})) {
	if _, ok := database.GetFact[complete.DefaultStructMalformedFact](node); ok {
		f(struct{}{})
	}
}
