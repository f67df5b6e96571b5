package feedback

import (
	"conceptc/complete"
	"conceptc/database"
	"conceptc/queries"
)

func registerCompletion() {
	register(Feedback[complete.MissingMembersFact]{
		Id:    "missing-member",
		Rank:  RankCompletion,
		Query: queries.MissingMembers,
		Render: func(render *Render, node database.Node, fact complete.MissingMembersFact) {
			render.WriteNode(node)
			render.WriteString(" is missing ")

			items := make([]func(), len(fact))
			for i, member := range fact {
				items[i] = func() {
					render.WriteCode(member.Name)
				}
			}
			render.WriteList(items, "and")

			render.WriteString(".")
			render.WriteBreak()
			render.WriteString("Every member required by the concept needs an implementation, a matching operator or method to forward to, or a default body.")
		},
	})

	register(Feedback[complete.ExcessMembersFact]{
		Id:    "excess-member",
		Rank:  RankCompletion,
		Query: queries.ExcessMembers,
		Render: func(render *Render, node database.Node, fact complete.ExcessMembersFact) {
			render.WriteNode(node)
			render.WriteString(" defines ")

			items := make([]func(), len(fact))
			for i, member := range fact {
				items[i] = func() {
					render.WriteCode(member.Name)
				}
			}
			render.WriteList(items, "and")

			render.WriteString(", which the concept doesn't require.")
			render.WriteBreak()
			render.WriteString("Remove this member, or declare it on a standalone instance instead.")
		},
	})

	register(Feedback[complete.ShimMismatchesFact]{
		Id:    "shim-mismatch",
		Rank:  RankCompletion,
		Query: queries.ShimMismatches,
		Render: func(render *Render, node database.Node, fact complete.ShimMismatchesFact) {
			render.WriteNode(node)
			render.WriteString(" implements ")

			items := make([]func(), len(fact))
			for i, mismatch := range fact {
				items[i] = func() {
					render.WriteCode(mismatch.Member.Name)
				}
			}
			render.WriteList(items, "and")

			render.WriteString(" with a different extension form than the concept declares.")
			render.WriteBreak()
			render.WriteString("The implementation must agree with the concept on whether the member is a capability extension method.")
		},
	})

	register(Feedback[struct{}]{
		Id:    "default-struct-malformed",
		Rank:  RankCompletion,
		Query: queries.DefaultStructMalformed,
		Render: func(render *Render, node database.Node, data struct{}) {
			render.WriteNode(node)
			render.WriteString(" has a default struct that isn't parameterized by a single witness.")
			render.WriteBreak()
			render.WriteString("A default struct takes exactly one type parameter, standing for the instance whose defaults it provides.")
		},
	})
}
