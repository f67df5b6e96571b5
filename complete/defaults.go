package complete

import (
	"conceptc/database"
	"conceptc/registry"
)

// DefaultStruct packages a concept's default member bodies, parameterized
// over the eventual instance witness so default shims dispatch through it.
type DefaultStruct struct {
	Concept *registry.ConceptNode
	Node    *registry.DefaultStructNode
	Witness *registry.TypeParameterNode
	Members []*registry.MemberNode
}

type defaultStructResult struct {
	defaults  *DefaultStruct
	malformed bool
}

// defaultStruct returns the concept's default struct, synthesizing one the
// first time it is needed. The result is computed at most once per concept;
// a malformed explicit struct is reported once and never used for shims.
func (e *Engine) defaultStruct(concept *registry.ConceptNode) (*DefaultStruct, bool) {
	result, _ := e.defaults.Get(concept, func() (defaultStructResult, error) {
		return e.makeDefaultStruct(concept), nil
	})

	return result.defaults, result.defaults != nil
}

func (e *Engine) makeDefaultStruct(concept *registry.ConceptNode) defaultStructResult {
	var defaulted []*registry.MemberNode
	for _, member := range concept.Members {
		if member.HasDefault {
			defaulted = append(defaulted, member)
		}
	}

	if node := concept.DefaultStruct; node != nil {
		// An explicit default struct must have arity 1, its sole parameter of
		// witness kind, and at least one default body to package.
		if len(node.Parameters) != 1 || !node.Parameters[0].Witness || len(defaulted) == 0 {
			database.SetFact(concept, DefaultStructMalformedFact{})
			return defaultStructResult{malformed: true}
		}

		return defaultStructResult{defaults: &DefaultStruct{
			Concept: concept,
			Node:    node,
			Witness: node.Parameters[0],
			Members: defaulted,
		}}
	}

	if len(defaulted) == 0 {
		return defaultStructResult{}
	}

	witness := &registry.TypeParameterNode{
		Name:    "W",
		Witness: true,
		Facts:   database.NewFacts(database.GetSpanFact(concept)),
	}
	database.SetNameFact(witness, "W")

	node := &registry.DefaultStructNode{
		Name:       "Default " + concept.Name,
		Parameters: []*registry.TypeParameterNode{witness},
		Facts:      database.NewFacts(database.GetSpanFact(concept)),
	}
	database.SetNameFact(node, node.Name)
	e.db.Register(node)

	return defaultStructResult{defaults: &DefaultStruct{
		Concept: concept,
		Node:    node,
		Witness: witness,
		Members: defaulted,
	}}
}
