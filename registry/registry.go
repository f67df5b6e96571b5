package registry

import (
	"context"
	"fmt"
	"sync"

	"conceptc/database"
	"conceptc/typecheck"
)

// RegistryConflictFact marks the later of two non-overlappable instances
// registered for the same (concept, type arguments) key. The earlier
// registration stays in effect; the conflict is reported once, on the
// duplicate.
type RegistryConflictFact struct {
	Existing *InstanceNode
}

func (fact RegistryConflictFact) String() string {
	return fmt.Sprintf("conflicts with %s", database.DisplayNode(fact.Existing))
}

// Registry stores concept and instance declarations for one compilation
// unit. It is populated during declaration binding and must tolerate
// concurrent registration from worker goroutines; lookups are concurrent
// reads once populated.
type Registry struct {
	mu        sync.RWMutex
	concepts  []*ConceptNode
	instances map[*ConceptNode][]*InstanceNode
	typeDefs  map[string]*TypeDefNode
}

func New() *Registry {
	return &Registry{
		instances: map[*ConceptNode][]*InstanceNode{},
		typeDefs:  map[string]*TypeDefNode{},
	}
}

func (r *Registry) RegisterConcept(concept *ConceptNode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.concepts = append(r.concepts, concept)
}

// RegisterInstance adds an instance, detecting duplicate registrations under
// the lock so a race between two registrations of the same key is reported
// as a conflict rather than resolved last-writer-wins. Returns false when
// the instance was rejected as a duplicate.
func (r *Registry) RegisterInstance(instance *InstanceNode) bool {
	if instance.Standalone {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.instances[nil] = append(r.instances[nil], instance)
		return true
	}

	if instance.Concept == nil {
		panic("registering an instance with no concept")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.instances[instance.Concept] {
		if existing.Overlappable || instance.Overlappable {
			continue
		}

		if typecheck.Subsumes(existing.Arguments, instance.Arguments) &&
			typecheck.Subsumes(instance.Arguments, existing.Arguments) {
			database.SetFact(instance, RegistryConflictFact{Existing: existing})
			return false
		}
	}

	r.instances[instance.Concept] = append(r.instances[instance.Concept], instance)
	return true
}

func (r *Registry) RegisterTypeDef(typeDef *TypeDefNode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.typeDefs[typeDef.Name] = typeDef
}

func (r *Registry) TypeDef(name string) (*TypeDefNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeDef, ok := r.typeDefs[name]
	return typeDef, ok
}

func (r *Registry) Concepts() []*ConceptNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	concepts := make([]*ConceptNode, len(r.concepts))
	copy(concepts, r.concepts)
	return concepts
}

func (r *Registry) Instances(concept *ConceptNode) []*InstanceNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instances := make([]*InstanceNode, len(r.instances[concept]))
	copy(instances, r.instances[concept])
	return instances
}

// Candidate is an instance whose arguments unify with a capability request,
// together with the bindings of the instance's own type parameters and the
// arguments after applying them.
type Candidate struct {
	Instance      *InstanceNode
	Substitutions map[database.Node]typecheck.Type
	Arguments     []typecheck.Type
}

// Lookup matches a capability request against the instances registered for
// the concept. The request supplies arguments for non-associated parameters
// only; associated positions are inferred from the matching instance. The
// candidate search is unbounded in the size of the visible instance set, so
// cancellation is polled per instance.
func (r *Registry) Lookup(ctx context.Context, concept *ConceptNode, arguments []typecheck.Type) ([]Candidate, error) {
	if concept == nil {
		panic("looking up a nil concept")
	}

	var supplied []int
	for i, parameter := range concept.Parameters {
		if !parameter.Associated {
			supplied = append(supplied, i)
		}
	}

	var candidates []Candidate
	for _, instance := range r.Instances(concept) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(arguments) != len(supplied) || len(instance.Arguments) != len(concept.Parameters) {
			continue
		}

		substitutions := map[database.Node]typecheck.Type{}
		matched := true
		for j, i := range supplied {
			if !typecheck.Match(instance.Arguments[i], arguments[j], substitutions) {
				matched = false
				break
			}
		}

		if !matched {
			continue
		}

		candidates = append(candidates, Candidate{
			Instance:      instance,
			Substitutions: substitutions,
			Arguments:     typecheck.SubstituteAll(instance.Arguments, substitutions),
		})
	}

	return candidates, nil
}
