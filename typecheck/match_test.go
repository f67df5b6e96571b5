package typecheck

import (
	"testing"

	"conceptc/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parameter struct {
	facts *database.Facts
}

func (p *parameter) GetFacts() *database.Facts {
	return p.facts
}

func newParameter(name string) *parameter {
	p := &parameter{facts: database.EmptyFacts()}
	database.SetNameFact(p, name)
	return p
}

func TestMatchBindsParameters(t *testing.T) {
	param := newParameter("T")

	substitutions := map[database.Node]Type{}
	require.True(t, Match(Con("List", param), Con("List", Con("Int")), substitutions))

	assert.True(t, TypesAreEqual(substitutions[param], Con("Int")))
}

func TestMatchBindsConsistently(t *testing.T) {
	param := newParameter("T")

	assert.False(t, MatchAll(
		[]Type{param, param},
		[]Type{Con("Int"), Con("Str")},
		map[database.Node]Type{},
	))

	assert.True(t, MatchAll(
		[]Type{param, param},
		[]Type{Con("Int"), Con("Int")},
		map[database.Node]Type{},
	))
}

func TestMatchTargetParametersAreOpaque(t *testing.T) {
	param := newParameter("U")

	// A parameter in the target only equals itself; a constructor never
	// matches it.
	assert.False(t, Match(Con("List", Con("Int")), param, map[database.Node]Type{}))
	assert.True(t, Match(param, param, map[database.Node]Type{}))
}

func TestSubsumes(t *testing.T) {
	blanket := newParameter("A")
	element := newParameter("E")

	assert.True(t, Subsumes([]Type{blanket}, []Type{Con("List", element)}))
	assert.False(t, Subsumes([]Type{Con("List", element)}, []Type{blanket}))
}

func TestMoreSpecific(t *testing.T) {
	blanket := newParameter("A")
	element := newParameter("E")
	other := newParameter("P")

	assert.True(t, MoreSpecific([]Type{Con("List", element)}, []Type{blanket}))
	assert.False(t, MoreSpecific([]Type{blanket}, []Type{Con("List", element)}))

	// Equally general patterns have no strict ordering in either direction.
	assert.False(t, MoreSpecific([]Type{Con("List", element)}, []Type{Con("List", other)}))
	assert.False(t, MoreSpecific([]Type{Con("List", other)}, []Type{Con("List", element)}))
}

func TestSubstitute(t *testing.T) {
	param := newParameter("T")
	unbound := newParameter("U")

	substituted := Substitute(Con("Pair", param, unbound), map[database.Node]Type{param: Con("Int")})

	constructed, ok := substituted.(*ConstructedType)
	require.True(t, ok)
	assert.True(t, TypesAreEqual(constructed.Children[0], Con("Int")))
	assert.Equal(t, Type(unbound), constructed.Children[1])
}

func TestDisplayType(t *testing.T) {
	param := newParameter("T")

	assert.Equal(t, "Int", DisplayType(Con("Int")))
	assert.Equal(t, "(List T)", DisplayType(Con("List", param)))
	assert.Equal(t, "(Map Str (List Int))", DisplayType(Con("Map", Con("Str"), Con("List", Con("Int")))))
}

func TestIsGround(t *testing.T) {
	param := newParameter("T")

	assert.True(t, IsGround(Con("List", Con("Int"))))
	assert.False(t, IsGround(Con("List", param)))
}
