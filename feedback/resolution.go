package feedback

import (
	"conceptc/database"
	"conceptc/queries"
	"conceptc/registry"
	"conceptc/resolve"
)

func registerResolution() {
	register(Feedback[resolve.NoInstanceFact]{
		Id:    "no-instance",
		Rank:  RankResolution,
		Query: queries.NoInstance,
		Render: func(render *Render, node database.Node, fact resolve.NoInstanceFact) {
			render.WriteNode(node)
			render.WriteString(" requires ")
			render.WriteCode(registry.CapabilityKey(fact.Concept, fact.Arguments))
			render.WriteString(", but no instance is defined for these types.")
			render.WriteBreak()
			render.WriteString("Double-check the type arguments, or define the missing instance.")
		},
	})

	register(Feedback[resolve.AmbiguousInstanceFact]{
		Id:    "ambiguous-instance",
		Rank:  RankResolution,
		Query: queries.AmbiguousInstance,
		Render: func(render *Render, node database.Node, fact resolve.AmbiguousInstanceFact) {
			render.WriteNode(node)
			render.WriteString(" matches ")

			items := make([]func(), len(fact.Candidates))
			for i, candidate := range fact.Candidates {
				items[i] = func() {
					render.WriteNode(candidate)
				}
			}
			render.WriteList(items, "and")

			render.WriteString(", and neither is more specific than the other.")
			render.WriteBreak()
			render.WriteString("Make one instance more specific, or adjust the call so only one applies.")
		},
	})
}
