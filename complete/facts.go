package complete

import (
	"fmt"
	"strings"

	"conceptc/colors"
	"conceptc/registry"
)

type MissingMembersFact []*registry.MemberNode

func (fact MissingMembersFact) String() string {
	names := make([]string, len(fact))
	for i, member := range fact {
		names[i] = colors.Code(member.Name)
	}

	return fmt.Sprintf("is missing member(s) %s", strings.Join(names, ", "))
}

type ExcessMembersFact []*registry.InstanceMemberNode

func (fact ExcessMembersFact) String() string {
	names := make([]string, len(fact))
	for i, member := range fact {
		names[i] = colors.Code(member.Name)
	}

	return fmt.Sprintf("has excess member(s) %s", strings.Join(names, ", "))
}

type ShimMismatch struct {
	Member *registry.MemberNode
	Method *registry.MethodNode
}

type ShimMismatchesFact []ShimMismatch

func (fact ShimMismatchesFact) String() string {
	parts := make([]string, len(fact))
	for i, mismatch := range fact {
		parts[i] = colors.Code(mismatch.Member.Name)
	}

	return fmt.Sprintf("has extension flag mismatch on %s", strings.Join(parts, ", "))
}

type DefaultStructMalformedFact struct{}

func (fact DefaultStructMalformedFact) String() string {
	return "has a malformed default struct"
}

// CompletedFact records an instance's completion verdict and any synthesized
// shims, for fact dumps and downstream queries.
type CompletedFact struct {
	Completion *Completion
}

func (fact CompletedFact) String() string {
	c := fact.Completion

	if !c.Complete() {
		return "is incomplete"
	}

	if len(c.Shims) == 0 {
		return "is complete"
	}

	parts := make([]string, len(c.Shims))
	for i, shim := range c.Shims {
		parts[i] = fmt.Sprintf("%s via %s", colors.Code(shim.Member.Name), shim.Provenance)
	}

	return fmt.Sprintf("is complete (%s)", strings.Join(parts, ", "))
}
