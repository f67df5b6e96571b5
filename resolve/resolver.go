package resolve

import (
	"context"

	"conceptc/registry"
	"conceptc/typecheck"
)

type FailureKind int

const (
	NoInstance FailureKind = iota
	AmbiguousInstance
)

func (k FailureKind) String() string {
	switch k {
	case NoInstance:
		return "no instance"
	case AmbiguousInstance:
		return "ambiguous instance"
	default:
		return "unknown failure"
	}
}

type Failure struct {
	Kind       FailureKind
	Concept    *registry.ConceptNode
	Arguments  []typecheck.Type
	Candidates []*registry.InstanceNode
}

// Resolve finds the witness for a capability request. The scope's abstract
// witness for the exact capability is preferred over deriving a fresh
// concrete instance, so generic code stays polymorphic rather than being
// eagerly concretized. Among registered candidates, a unique match wins;
// overlappable matches are ordered by specificity; candidates that never
// opted into overlap do not tie-break, so two of them matching is ambiguous.
// The result depends only on the request and the visible instance set, never
// on registry enumeration order.
func Resolve(ctx context.Context, reg *registry.Registry, scope Scope, concept *registry.ConceptNode, arguments []typecheck.Type) (Witness, *Failure, error) {
	if concept == nil {
		panic("resolving a nil concept")
	}

	if abstract, ok := scope.Lookup(registry.CapabilityKey(concept, arguments)); ok {
		return abstract, nil, nil
	}

	candidates, err := reg.Lookup(ctx, concept, arguments)
	if err != nil {
		return nil, nil, err
	}

	switch len(candidates) {
	case 0:
		return nil, &Failure{
			Kind:      NoInstance,
			Concept:   concept,
			Arguments: arguments,
		}, nil
	case 1:
		return concrete(candidates[0]), nil, nil
	}

	var nonOverlappable []*registry.InstanceNode
	for _, candidate := range candidates {
		if !candidate.Instance.Overlappable {
			nonOverlappable = append(nonOverlappable, candidate.Instance)
		}
	}

	if len(nonOverlappable) >= 2 {
		return nil, &Failure{
			Kind:       AmbiguousInstance,
			Concept:    concept,
			Arguments:  arguments,
			Candidates: nonOverlappable,
		}, nil
	}

	if winner, ok := mostSpecific(candidates); ok {
		return concrete(winner), nil, nil
	}

	return nil, &Failure{
		Kind:       AmbiguousInstance,
		Concept:    concept,
		Arguments:  arguments,
		Candidates: maximal(candidates),
	}, nil
}

func concrete(candidate registry.Candidate) *Concrete {
	return &Concrete{
		Instance:      candidate.Instance,
		Substitutions: candidate.Substitutions,
		Args:          candidate.Arguments,
	}
}

// mostSpecific finds the candidate strictly more specific than every other,
// comparing the instances' declared argument patterns. Two candidates each
// more specific in different independent positions have no strict ordering,
// which is a deliberate ambiguity, not a guessed resolution.
func mostSpecific(candidates []registry.Candidate) (registry.Candidate, bool) {
	for _, candidate := range candidates {
		wins := true
		for _, other := range candidates {
			if other.Instance == candidate.Instance {
				continue
			}

			if !typecheck.MoreSpecific(candidate.Instance.Arguments, other.Instance.Arguments) {
				wins = false
				break
			}
		}

		if wins {
			return candidate, true
		}
	}

	return registry.Candidate{}, false
}

// maximal keeps the candidates no other candidate is strictly more specific
// than, for the ambiguity report.
func maximal(candidates []registry.Candidate) []*registry.InstanceNode {
	var result []*registry.InstanceNode
	for _, candidate := range candidates {
		dominated := false
		for _, other := range candidates {
			if other.Instance == candidate.Instance {
				continue
			}

			if typecheck.MoreSpecific(other.Instance.Arguments, candidate.Instance.Arguments) {
				dominated = true
				break
			}
		}

		if !dominated {
			result = append(result, candidate.Instance)
		}
	}

	return result
}
