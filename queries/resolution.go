package queries

import (
	"conceptc/database"
	"conceptc/resolve"
)

func NoInstance(db *database.Db, node database.Node, filter func(node database.Node) bool, f func(fact resolve.NoInstanceFact)) {
	if fact, ok := database.GetFact[resolve.NoInstanceFact](node); ok {
		f(fact)
	}
}

func AmbiguousInstance(db *database.Db, node database.Node, filter func(node database.Node) bool, f func(fact resolve.AmbiguousInstanceFact)) {
	if fact, ok := database.GetFact[resolve.AmbiguousInstanceFact](node); ok {
		f(fact)
	}
}
