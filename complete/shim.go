package complete

import (
	"fmt"

	"conceptc/database"
	"conceptc/registry"
	"conceptc/typecheck"
)

// Provenance tags how a shim was synthesized.
type Provenance int

const (
	OperatorShim Provenance = iota
	ExtensionShim
	DefaultShim
)

func (p Provenance) String() string {
	switch p {
	case OperatorShim:
		return "operator shim"
	case ExtensionShim:
		return "extension shim"
	case DefaultShim:
		return "default shim"
	default:
		panic(fmt.Sprintf("invalid provenance: %d", int(p)))
	}
}

// Shim is a synthesized forwarding implementation filling a gap in an
// instance. Only valid shims are recorded; an invalid candidate is discarded
// during synthesis and the next strategy tried.
type Shim struct {
	Member     *registry.MemberNode
	Provenance Provenance

	// The forwarding target: a *registry.MethodNode for operator and
	// extension shims, the defaulted *registry.MemberNode for default shims.
	Target database.Node
}

// Each strategy is a pure function from (instance, member) to an optional
// shim candidate. Priority is the order of this list, nothing else; the
// first strategy returning a candidate that survives validation wins.
type strategyFunc func(e *Engine, instance *registry.InstanceNode, member *registry.MemberNode, substitutions map[database.Node]typecheck.Type) (*Shim, bool)

var strategies = []strategyFunc{
	operatorShim,
	extensionShim,
	defaultShim,
}

// operatorShim applies when the member has a symbolic name, and looks for a
// same-named, same-arity public static operator on the type of the member's
// first parameter.
func operatorShim(e *Engine, instance *registry.InstanceNode, member *registry.MemberNode, substitutions map[database.Node]typecheck.Type) (*Shim, bool) {
	if !member.Symbolic() || len(member.Params) == 0 {
		return nil, false
	}

	params := typecheck.SubstituteAll(member.Params, substitutions)
	result := typecheck.Substitute(member.Result, substitutions)

	tag, ok := typecheck.Tag(params[0])
	if !ok {
		return nil, false
	}

	typeDef, ok := e.registry.TypeDef(tag)
	if !ok {
		return nil, false
	}

	for _, method := range typeDef.Methods {
		if !method.Static || method.Name != member.Name || len(method.Params) != len(params) {
			continue
		}

		if !method.Public || !alignSignature(params, result, method.Params, method.Result) {
			continue
		}

		return &Shim{
			Member:     member,
			Provenance: OperatorShim,
			Target:     method,
		}, true
	}

	return nil, false
}

// extensionShim applies when the member has a receiver-first parameter, and
// looks for an ordinary public instance method on the receiver type: first
// by name and arity, then, if no method carries the member's name, for the
// single method whose signature matches exactly. A candidate whose
// capability-extension flag disagrees with the member's is a ShimMismatch:
// reported, then discarded.
func extensionShim(e *Engine, instance *registry.InstanceNode, member *registry.MemberNode, substitutions map[database.Node]typecheck.Type) (*Shim, bool) {
	if len(member.Params) == 0 {
		return nil, false
	}

	params := typecheck.SubstituteAll(member.Params, substitutions)
	result := typecheck.Substitute(member.Result, substitutions)

	tag, ok := typecheck.Tag(params[0])
	if !ok {
		return nil, false
	}

	typeDef, ok := e.registry.TypeDef(tag)
	if !ok {
		return nil, false
	}

	sameName := false
	for _, method := range typeDef.Methods {
		if method.Static || method.Name != member.Name || len(method.Params) != len(params)-1 {
			continue
		}

		sameName = true

		if method.Extension != member.Extension {
			mismatches, _ := database.GetFact[ShimMismatchesFact](instance)
			database.SetFact(instance, append(mismatches, ShimMismatch{
				Member: member,
				Method: method,
			}))
			continue
		}

		if !method.Public || !alignSignature(params[1:], result, method.Params, method.Result) {
			continue
		}

		return &Shim{
			Member:     member,
			Provenance: ExtensionShim,
			Target:     method,
		}, true
	}

	if sameName {
		return nil, false
	}

	// No method carries the member's name; bind to a differently named
	// method only when its signature matches exactly and it is the only one
	// that does, never guessing between several.
	var found *registry.MethodNode
	for _, method := range typeDef.Methods {
		if method.Static || !method.Public || method.Extension != member.Extension {
			continue
		}

		if !alignSignature(params[1:], result, method.Params, method.Result) {
			continue
		}

		if found != nil {
			return nil, false
		}

		found = method
	}

	if found == nil {
		return nil, false
	}

	return &Shim{
		Member:     member,
		Provenance: ExtensionShim,
		Target:     found,
	}, true
}

// defaultShim applies when the concept or a supertype has a default struct
// declaring a default body for the member. The shim dispatches through the
// struct instantiated with this instance as the witness argument.
func defaultShim(e *Engine, instance *registry.InstanceNode, member *registry.MemberNode, substitutions map[database.Node]typecheck.Type) (*Shim, bool) {
	for _, concept := range instance.Concept.DefaultedChain() {
		defaults, ok := e.defaultStruct(concept)
		if !ok {
			continue
		}

		for _, defaulted := range defaults.Members {
			if defaulted.Name != member.Name || len(defaulted.Params) != len(member.Params) {
				continue
			}

			return &Shim{
				Member:     member,
				Provenance: DefaultShim,
				Target:     defaulted,
			}, true
		}
	}

	return nil, false
}

// alignSignature is the validity check shared by every strategy: parameter
// and return types must match the member's instantiated signature exactly.
func alignSignature(expectedParams []typecheck.Type, expectedResult typecheck.Type, params []typecheck.Type, result typecheck.Type) bool {
	if len(expectedParams) != len(params) {
		return false
	}

	for i, expected := range expectedParams {
		if !typecheck.TypesAreEqual(expected, params[i]) {
			return false
		}
	}

	return typecheck.TypesAreEqual(expectedResult, result)
}
