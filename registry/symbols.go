package registry

import (
	"fmt"
	"strings"
	"unicode"

	"conceptc/database"
	"conceptc/typecheck"
)

// The host compiler hands this package declarations that are already bound;
// every symbol below is a database node so diagnostics and derived facts
// attach to the declaration itself.

// TypeParameterNode is a type parameter of a concept, instance, or default
// struct. Associated parameters are inferred during resolution rather than
// supplied by callers; Witness marks the single dictionary-typed parameter
// of a default struct.
type TypeParameterNode struct {
	Name       string
	Associated bool
	Witness    bool
	Facts      *database.Facts
}

func (node *TypeParameterNode) GetFacts() *database.Facts {
	return node.Facts
}

// MemberNode is a required member of a concept. Params includes the
// receiver-first parameter when the member has one; Extension marks members
// declared in capability-extension form.
type MemberNode struct {
	Name       string
	Params     []typecheck.Type
	Result     typecheck.Type
	Static     bool
	Extension  bool
	HasDefault bool
	Facts      *database.Facts
}

func (node *MemberNode) GetFacts() *database.Facts {
	return node.Facts
}

// Symbolic reports whether the member has an operator-like name.
func (node *MemberNode) Symbolic() bool {
	for _, r := range node.Name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return false
		}
	}

	return len(node.Name) > 0
}

// DefaultStructNode is a declared holder for a concept's default member
// bodies. A well-formed default struct has exactly one type parameter, of
// witness kind; anything else is reported as malformed and never used for
// shims. When a concept declares default bodies but no explicit struct, one
// is synthesized.
type DefaultStructNode struct {
	Name       string
	Parameters []*TypeParameterNode
	Facts      *database.Facts
}

func (node *DefaultStructNode) GetFacts() *database.Facts {
	return node.Facts
}

// SuperConcept is an extended concept together with the type arguments the
// subtype passes it, written in terms of the subtype's own parameters.
type SuperConcept struct {
	Concept   *ConceptNode
	Arguments []typecheck.Type
}

type ConceptNode struct {
	Name          string
	Parameters    []*TypeParameterNode
	Members       []*MemberNode
	Extends       []SuperConcept
	DefaultStruct *DefaultStructNode
	Facts         *database.Facts
}

func (node *ConceptNode) GetFacts() *database.Facts {
	return node.Facts
}

// RequiredMembers is the concept's full member set: its own members followed
// by every supertype's, in declaration order, with duplicate name/arity
// pairs collapsed to the first occurrence.
func (node *ConceptNode) RequiredMembers() []*MemberNode {
	var members []*MemberNode
	seen := map[string]struct{}{}

	var collect func(concept *ConceptNode)
	collect = func(concept *ConceptNode) {
		for _, member := range concept.Members {
			key := fmt.Sprintf("%s/%d", member.Name, len(member.Params))
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			members = append(members, member)
		}

		for _, super := range concept.Extends {
			collect(super.Concept)
		}
	}

	collect(node)

	return members
}

// DefaultedChain walks the concept and its supertypes in member order and
// returns the first one declaring at least one default body for use by the
// default-shim strategy, along with whether any exists.
func (node *ConceptNode) DefaultedChain() []*ConceptNode {
	var chain []*ConceptNode

	var collect func(concept *ConceptNode)
	collect = func(concept *ConceptNode) {
		chain = append(chain, concept)
		for _, super := range concept.Extends {
			collect(super.Concept)
		}
	}

	collect(node)

	return chain
}

// HasDefaults reports whether the concept itself declares a member with a
// default body. A default struct exists only for such concepts.
func (node *ConceptNode) HasDefaults() bool {
	for _, member := range node.Members {
		if member.HasDefault {
			return true
		}
	}

	return false
}

// InstanceMemberNode is a member implementation written directly on an
// instance declaration.
type InstanceMemberNode struct {
	Name      string
	Params    []typecheck.Type
	Result    typecheck.Type
	Extension bool
	Facts     *database.Facts
}

func (node *InstanceMemberNode) GetFacts() *database.Facts {
	return node.Facts
}

// InstanceNode binds a concept to concrete type arguments. Parameters are
// the instance's own generic parameters (`instance CShow (List T)` has one);
// Overlappable opts the instance into specificity tie-breaking; Standalone
// instances implement no concept and serve as ad hoc method bags.
type InstanceNode struct {
	Concept      *ConceptNode
	Arguments    []typecheck.Type
	Parameters   []*TypeParameterNode
	Members      []*InstanceMemberNode
	Overlappable bool
	Standalone   bool
	Facts        *database.Facts
}

func (node *InstanceNode) GetFacts() *database.Facts {
	return node.Facts
}

// ConceptSubstitutions maps the concept's type parameters, and transitively
// every supertype's, to the instance's arguments, for instantiating
// required-member signatures at this instance.
func (node *InstanceNode) ConceptSubstitutions() map[database.Node]typecheck.Type {
	substitutions := map[database.Node]typecheck.Type{}

	var bind func(concept *ConceptNode, arguments []typecheck.Type)
	bind = func(concept *ConceptNode, arguments []typecheck.Type) {
		for i, parameter := range concept.Parameters {
			if i < len(arguments) {
				substitutions[parameter] = arguments[i]
			}
		}

		for _, super := range concept.Extends {
			bind(super.Concept, typecheck.SubstituteAll(super.Arguments, substitutions))
		}
	}

	bind(node.Concept, node.Arguments)

	return substitutions
}

func DisplayInstance(node *InstanceNode) string {
	if node.Standalone {
		return fmt.Sprintf("standalone %s", database.GetNameFact(node))
	}

	return fmt.Sprintf("%s %s", node.Concept.Name, typecheck.DisplayTypes(node.Arguments))
}

// MethodNode is an ordinary method or static operator defined on a host
// type, visible to shim search. Params excludes the receiver for instance
// methods and includes every operand for static operators.
type MethodNode struct {
	Name      string
	Params    []typecheck.Type
	Result    typecheck.Type
	Static    bool
	Public    bool
	Extension bool
	Facts     *database.Facts
}

func (node *MethodNode) GetFacts() *database.Facts {
	return node.Facts
}

// TypeDefNode is a host type together with its method set.
type TypeDefNode struct {
	Name    string
	Methods []*MethodNode
	Facts   *database.Facts
}

func (node *TypeDefNode) GetFacts() *database.Facts {
	return node.Facts
}

// CapabilityKey is the stable identity of a capability request: the concept
// plus the display form of its type arguments.
func CapabilityKey(concept *ConceptNode, arguments []typecheck.Type) string {
	var s strings.Builder
	s.WriteString(concept.Name)
	for _, argument := range arguments {
		s.WriteString(" ")
		s.WriteString(typecheck.DisplayType(argument))
	}

	return s.String()
}
