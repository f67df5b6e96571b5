package typecheck

import (
	"fmt"

	"conceptc/database"
)

// Match unifies a pattern against a target one-way: type parameters in the
// pattern bind to the corresponding piece of the target, while parameters in
// the target are opaque and only equal themselves. A parameter bound twice
// must bind to equal types.
func Match(pattern Type, target Type, substitutions map[database.Node]Type) bool {
	switch pattern := pattern.(type) {
	case database.Node:
		if existing, ok := substitutions[pattern]; ok {
			return TypesAreEqual(existing, target)
		}

		substitutions[pattern] = target
		return true
	case *ConstructedType:
		targetConstructed, ok := target.(*ConstructedType)
		if !ok {
			return false
		}

		if pattern.Tag != targetConstructed.Tag || len(pattern.Children) != len(targetConstructed.Children) {
			return false
		}

		for i, child := range pattern.Children {
			if !Match(child, targetConstructed.Children[i], substitutions) {
				return false
			}
		}

		return true
	default:
		panic(fmt.Sprintf("invalid type: %T", pattern))
	}
}

// MatchAll matches two argument lists positionally with a shared
// substitution, so a parameter appearing in several positions must bind
// consistently.
func MatchAll(patterns []Type, targets []Type, substitutions map[database.Node]Type) bool {
	if len(patterns) != len(targets) {
		return false
	}

	for i, pattern := range patterns {
		if !Match(pattern, targets[i], substitutions) {
			return false
		}
	}

	return true
}

// Subsumes reports whether `general` matches everything `specific` does:
// the general argument list one-way-matches the specific one.
func Subsumes(general []Type, specific []Type) bool {
	return MatchAll(general, specific, map[database.Node]Type{})
}

// MoreSpecific fixes the specificity preorder for overlappable instances:
// `left` is strictly more specific than `right` when right's argument
// pattern subsumes left's but not the other way around. Argument lists with
// no strict ordering between them are deliberately ambiguous.
func MoreSpecific(left []Type, right []Type) bool {
	return Subsumes(right, left) && !Subsumes(left, right)
}
