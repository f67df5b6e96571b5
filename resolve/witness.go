package resolve

import (
	"fmt"

	"conceptc/database"
	"conceptc/registry"
	"conceptc/typecheck"
)

// Witness stands for "the instance in effect for concept C at these type
// arguments": either a concrete instance, or an abstract placeholder for a
// capability the enclosing generic function itself requires, to be resolved
// by that function's own caller. The sum is carried unchanged through
// resolution and only converted into a storage location at lowering time.
type Witness interface {
	Concept() *registry.ConceptNode
	Arguments() []typecheck.Type

	// Key is the witness's stable capability identity, used for scope
	// lookups and for the per-body dictionary-local map.
	Key() string

	Display() string

	witness()
}

type Concrete struct {
	Instance *registry.InstanceNode

	// Bindings of the instance's own type parameters produced by the match,
	// and the instance arguments after applying them.
	Substitutions map[database.Node]typecheck.Type
	Args          []typecheck.Type
}

func (w *Concrete) witness() {}

func (w *Concrete) Concept() *registry.ConceptNode {
	return w.Instance.Concept
}

func (w *Concrete) Arguments() []typecheck.Type {
	return w.Args
}

func (w *Concrete) Key() string {
	return registry.CapabilityKey(w.Instance.Concept, w.Args)
}

func (w *Concrete) Display() string {
	return registry.CapabilityKey(w.Instance.Concept, w.Args)
}

// Abstract is a witness the enclosing generic function receives from its
// caller as the dictionary parameter named Parameter.
type Abstract struct {
	Parameter string
	Bound     *registry.ConceptNode
	Args      []typecheck.Type
}

func (w *Abstract) witness() {}

func (w *Abstract) Concept() *registry.ConceptNode {
	return w.Bound
}

func (w *Abstract) Arguments() []typecheck.Type {
	return w.Args
}

func (w *Abstract) Key() string {
	return registry.CapabilityKey(w.Bound, w.Args)
}

func (w *Abstract) Display() string {
	return fmt.Sprintf("%s (abstract %s)", registry.CapabilityKey(w.Bound, w.Args), w.Parameter)
}
