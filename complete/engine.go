package complete

import (
	"context"
	"fmt"

	"conceptc/database"
	"conceptc/registry"
	"conceptc/typecheck"
)

// Implementation resolves one required member of an instance: directly, or
// through a synthesized shim. Exactly one of Direct and Shim is set.
type Implementation struct {
	Member *registry.MemberNode
	Direct *registry.InstanceMemberNode
	Shim   *Shim
}

// Completion is the verdict for one instance. An instance is complete iff
// every required member (including inherited) resolved to exactly one
// implementation and no instance member went unmatched.
type Completion struct {
	Instance        *registry.InstanceNode
	Implementations []Implementation
	Shims           []*Shim
	Missing         []*registry.MemberNode
	Excess          []*registry.InstanceMemberNode
	Mismatches      []ShimMismatch
}

func (c *Completion) Complete() bool {
	return len(c.Missing) == 0 && len(c.Excess) == 0
}

// Engine completes instances lazily. Verdicts and default structs are cached
// at most once per declaration; an incomplete instance never affects the
// completion of unrelated instances.
type Engine struct {
	db          *database.Db
	registry    *registry.Registry
	completions *database.Table[*registry.InstanceNode, *Completion]
	defaults    *database.Table[*registry.ConceptNode, defaultStructResult]
}

func NewEngine(db *database.Db, reg *registry.Registry) *Engine {
	return &Engine{
		db:       db,
		registry: reg,
		completions: database.NewTable[*registry.InstanceNode, *Completion](func(instance *registry.InstanceNode) string {
			return fmt.Sprintf("%p", instance)
		}),
		defaults: database.NewTable[*registry.ConceptNode, defaultStructResult](func(concept *registry.ConceptNode) string {
			return fmt.Sprintf("%p", concept)
		}),
	}
}

func (e *Engine) Completion(ctx context.Context, instance *registry.InstanceNode) (*Completion, error) {
	return e.completions.Get(instance, func() (*Completion, error) {
		return e.compute(ctx, instance)
	})
}

func (e *Engine) IsComplete(ctx context.Context, instance *registry.InstanceNode) (bool, error) {
	completion, err := e.Completion(ctx, instance)
	if err != nil {
		return false, err
	}

	return completion.Complete(), nil
}

func (e *Engine) MissingMembers(ctx context.Context, instance *registry.InstanceNode) ([]*registry.MemberNode, error) {
	completion, err := e.Completion(ctx, instance)
	if err != nil {
		return nil, err
	}

	return completion.Missing, nil
}

func (e *Engine) compute(ctx context.Context, instance *registry.InstanceNode) (*Completion, error) {
	completion := &Completion{Instance: instance}

	// Standalone instances implement no concept; their members are an ad hoc
	// method bag with nothing to match against.
	if instance.Standalone {
		database.SetFact(instance, CompletedFact{Completion: completion})
		return completion, nil
	}

	if instance.Concept == nil {
		panic(fmt.Sprintf("completing an instance with no concept: %s", database.DisplayNode(instance)))
	}

	substitutions := instance.ConceptSubstitutions()
	consumed := map[*registry.InstanceMemberNode]struct{}{}

	for _, member := range instance.Concept.RequiredMembers() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if direct, ok := e.matchDirect(instance, member, substitutions, consumed); ok {
			completion.Implementations = append(completion.Implementations, Implementation{
				Member: member,
				Direct: direct,
			})
			continue
		}

		// Strategies run in strict order; the first candidate surviving
		// validation wins, an invalid candidate is discarded and the next
		// strategy tried.
		var shim *Shim
		for _, strategy := range strategies {
			if candidate, ok := strategy(e, instance, member, substitutions); ok {
				shim = candidate
				break
			}
		}

		if shim != nil {
			completion.Implementations = append(completion.Implementations, Implementation{
				Member: member,
				Shim:   shim,
			})
			completion.Shims = append(completion.Shims, shim)
			continue
		}

		completion.Missing = append(completion.Missing, member)
	}

	// Separate completeness/excess pass: every instance member the matching
	// walk never consumed is excess.
	for _, member := range instance.Members {
		if _, ok := consumed[member]; !ok {
			completion.Excess = append(completion.Excess, member)
		}
	}

	if mismatches, ok := database.GetFact[ShimMismatchesFact](instance); ok {
		completion.Mismatches = mismatches
	}

	if len(completion.Missing) > 0 {
		database.SetFact(instance, MissingMembersFact(completion.Missing))
	}
	if len(completion.Excess) > 0 {
		database.SetFact(instance, ExcessMembersFact(completion.Excess))
	}
	database.SetFact(instance, CompletedFact{Completion: completion})

	return completion, nil
}

// matchDirect finds a directly written implementation for a required member.
// A member matching by name and arity but disagreeing on the
// capability-extension flag is a ShimMismatch; it is consumed (so it is not
// also reported as excess) but provides no implementation.
func (e *Engine) matchDirect(instance *registry.InstanceNode, member *registry.MemberNode, substitutions map[database.Node]typecheck.Type, consumed map[*registry.InstanceMemberNode]struct{}) (*registry.InstanceMemberNode, bool) {
	params := typecheck.SubstituteAll(member.Params, substitutions)
	result := typecheck.Substitute(member.Result, substitutions)

	for _, candidate := range instance.Members {
		if _, ok := consumed[candidate]; ok {
			continue
		}

		if candidate.Name != member.Name || len(candidate.Params) != len(member.Params) {
			continue
		}

		if candidate.Extension != member.Extension {
			mismatches, _ := database.GetFact[ShimMismatchesFact](instance)
			database.SetFact(instance, append(mismatches, ShimMismatch{Member: member}))
			consumed[candidate] = struct{}{}
			continue
		}

		if !alignSignature(params, result, candidate.Params, candidate.Result) {
			continue
		}

		consumed[candidate] = struct{}{}
		return candidate, true
	}

	return nil, false
}
