package feedback

import (
	"conceptc/database"
	"conceptc/queries"
	"conceptc/registry"
)

func registerRegistry() {
	register(Feedback[registry.RegistryConflictFact]{
		Id:    "registry-conflict",
		Rank:  RankRegistry,
		Query: queries.RegistryConflict,
		Render: func(render *Render, node database.Node, fact registry.RegistryConflictFact) {
			render.WriteNode(node)
			render.WriteString(" is already implemented by ")
			render.WriteNode(fact.Existing)
			render.WriteString(".")
			render.WriteBreak()
			render.WriteString("Remove one of the instances, or mark both with ")
			render.WriteCode("[overlappable]")
			render.WriteString(" to pick the more specific one at each use.")
		},
	})
}
