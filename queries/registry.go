package queries

import (
	"conceptc/database"
	"conceptc/registry"
)

func RegistryConflict(db *database.Db, node database.Node, filter func(node database.Node) bool, f func(fact registry.RegistryConflictFact)) {
	if fact, ok := database.GetFact[registry.RegistryConflictFact](node); ok {
		f(fact)
	}
}
