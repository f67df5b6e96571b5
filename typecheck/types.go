package typecheck

import (
	"fmt"
	"slices"
	"strings"

	"conceptc/database"
)

// Type is either a *ConstructedType or a database.Node standing for a type
// parameter of the declaration that owns it.
type Type any

// ConstructedType is a named type constructor applied to zero or more
// arguments (`Int`, `List Int`, `Pair Int Str`).
type ConstructedType struct {
	Tag      string
	Children []Type
}

func Con(tag string, children ...Type) *ConstructedType {
	return &ConstructedType{
		Tag:      tag,
		Children: children,
	}
}

// Tag returns the head constructor of a type, or false for a bare type
// parameter.
func Tag(ty Type) (string, bool) {
	constructed, ok := ty.(*ConstructedType)
	if !ok {
		return "", false
	}

	return constructed.Tag, true
}

func DisplayType(ty Type) string {
	switch ty := ty.(type) {
	case *ConstructedType:
		if len(ty.Children) == 0 {
			return ty.Tag
		}

		var s strings.Builder
		s.WriteString("(")
		s.WriteString(ty.Tag)
		for _, child := range ty.Children {
			s.WriteString(" ")
			s.WriteString(DisplayType(child))
		}
		s.WriteString(")")

		return s.String()
	case database.Node:
		return database.GetNameFact(ty)
	default:
		panic(fmt.Sprintf("invalid type: %T", ty))
	}
}

func DisplayTypes(types []Type) string {
	parts := make([]string, len(types))
	for i, ty := range types {
		parts[i] = DisplayType(ty)
	}

	return strings.Join(parts, " ")
}

func TypesAreEqual(left Type, right Type) bool {
	if left == right {
		return true
	}

	if left, ok := left.(*ConstructedType); ok {
		if right, ok := right.(*ConstructedType); ok {
			return left.Tag == right.Tag &&
				len(left.Children) == len(right.Children) &&
				slices.EqualFunc(left.Children, right.Children, TypesAreEqual)
		}
	}

	return false
}

// Substitute replaces every type parameter bound in `substitutions` with its
// substitution, leaving unbound parameters in place.
func Substitute(ty Type, substitutions map[database.Node]Type) Type {
	switch ty := ty.(type) {
	case *ConstructedType:
		children := make([]Type, len(ty.Children))
		for i, child := range ty.Children {
			children[i] = Substitute(child, substitutions)
		}

		return &ConstructedType{Tag: ty.Tag, Children: children}
	case database.Node:
		if substitution, ok := substitutions[ty]; ok {
			return substitution
		}

		return ty
	default:
		panic(fmt.Sprintf("invalid type: %T", ty))
	}
}

func SubstituteAll(types []Type, substitutions map[database.Node]Type) []Type {
	substituted := make([]Type, len(types))
	for i, ty := range types {
		substituted[i] = Substitute(ty, substitutions)
	}

	return substituted
}

// IsGround reports whether a type contains no type parameters.
func IsGround(ty Type) bool {
	switch ty := ty.(type) {
	case *ConstructedType:
		for _, child := range ty.Children {
			if !IsGround(child) {
				return false
			}
		}

		return true
	case database.Node:
		return false
	default:
		panic(fmt.Sprintf("invalid type: %T", ty))
	}
}
