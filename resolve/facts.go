package resolve

import (
	"fmt"
	"strings"

	"conceptc/colors"
	"conceptc/database"
	"conceptc/registry"
	"conceptc/typecheck"
)

// ResolvedFact attaches the chosen witness to a bound call.
type ResolvedFact struct {
	Witness Witness
}

func (fact ResolvedFact) String() string {
	return fmt.Sprintf("resolves to %s", colors.Code(fact.Witness.Display()))
}

type NoInstanceFact struct {
	Concept   *registry.ConceptNode
	Arguments []typecheck.Type
}

func (fact NoInstanceFact) String() string {
	return fmt.Sprintf("has no instance for %s", colors.Code(registry.CapabilityKey(fact.Concept, fact.Arguments)))
}

type AmbiguousInstanceFact struct {
	Concept    *registry.ConceptNode
	Arguments  []typecheck.Type
	Candidates []*registry.InstanceNode
}

func (fact AmbiguousInstanceFact) String() string {
	names := make([]string, len(fact.Candidates))
	for i, candidate := range fact.Candidates {
		names[i] = colors.Code(registry.DisplayInstance(candidate))
	}

	return fmt.Sprintf("is ambiguous between %s", strings.Join(names, colors.Conflict(" and ")))
}

// ErroredFact marks a call whose resolution failed, so lowering skips it
// rather than lowering malformed input.
type ErroredFact struct{}

func (fact ErroredFact) String() string {
	return "is errored"
}

func IsErrored(node database.Node) bool {
	_, ok := database.GetFact[ErroredFact](node)
	return ok
}
