package resolve

import (
	"context"
	"testing"

	"conceptc/database"
	"conceptc/registry"
	"conceptc/typecheck"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tInt = typecheck.Con("Int")
	tStr = typecheck.Con("Str")
)

func listOf(element typecheck.Type) typecheck.Type {
	return typecheck.Con("List", element)
}

func makeParam(name string) *registry.TypeParameterNode {
	node := &registry.TypeParameterNode{Name: name, Facts: database.EmptyFacts()}
	database.SetNameFact(node, name)
	return node
}

func makeConcept(name string) *registry.ConceptNode {
	node := &registry.ConceptNode{Name: name, Parameters: []*registry.TypeParameterNode{makeParam("T")}, Facts: database.EmptyFacts()}
	database.SetNameFact(node, name)
	return node
}

func makeInstance(reg *registry.Registry, concept *registry.ConceptNode, overlappable bool, parameters []*registry.TypeParameterNode, arguments ...typecheck.Type) *registry.InstanceNode {
	node := &registry.InstanceNode{
		Concept:      concept,
		Arguments:    arguments,
		Parameters:   parameters,
		Overlappable: overlappable,
		Facts:        database.EmptyFacts(),
	}
	database.SetNameFact(node, registry.DisplayInstance(node))

	if !reg.RegisterInstance(node) {
		panic("instance rejected")
	}

	return node
}

func TestResolveUnique(t *testing.T) {
	reg := registry.New()
	concept := makeConcept("CMonoid")
	instance := makeInstance(reg, concept, false, nil, tInt)

	witness, failure, err := Resolve(context.Background(), reg, NewScope(), concept, []typecheck.Type{tInt})
	require.NoError(t, err)
	require.Nil(t, failure)

	concrete, ok := witness.(*Concrete)
	require.True(t, ok)
	assert.Same(t, instance, concrete.Instance)
	assert.Equal(t, "CMonoid Int", witness.Key())
}

func TestResolveNoInstance(t *testing.T) {
	reg := registry.New()
	concept := makeConcept("CMonoid")
	makeInstance(reg, concept, false, nil, tInt)

	witness, failure, err := Resolve(context.Background(), reg, NewScope(), concept, []typecheck.Type{tStr})
	require.NoError(t, err)
	require.Nil(t, witness)

	require.NotNil(t, failure)
	assert.Equal(t, NoInstance, failure.Kind)
	assert.Same(t, concept, failure.Concept)
}

func TestResolvePrefersAbstract(t *testing.T) {
	reg := registry.New()
	concept := makeConcept("CMonoid")
	makeInstance(reg, concept, false, nil, tInt)

	abstract := &Abstract{Parameter: "d", Bound: concept, Args: []typecheck.Type{tInt}}
	scope := NewScope().With(abstract)

	// The scope's witness shadows the registered instance: generic code stays
	// polymorphic instead of being eagerly concretized.
	witness, failure, err := Resolve(context.Background(), reg, scope, concept, []typecheck.Type{tInt})
	require.NoError(t, err)
	require.Nil(t, failure)
	assert.Same(t, Witness(abstract), witness)
}

func TestResolveSpecificity(t *testing.T) {
	reg := registry.New()
	concept := makeConcept("CSize")

	blanketParam := makeParam("A")
	makeInstance(reg, concept, true, []*registry.TypeParameterNode{blanketParam}, blanketParam)

	element := makeParam("E")
	listInstance := makeInstance(reg, concept, true, []*registry.TypeParameterNode{element}, listOf(element))

	witness, failure, err := Resolve(context.Background(), reg, NewScope(), concept, []typecheck.Type{listOf(tInt)})
	require.NoError(t, err)
	require.Nil(t, failure)

	concrete, ok := witness.(*Concrete)
	require.True(t, ok)
	assert.Same(t, listInstance, concrete.Instance)
	assert.True(t, typecheck.TypesAreEqual(concrete.Args[0], listOf(tInt)))
}

func TestResolveEqualSpecificityAmbiguous(t *testing.T) {
	reg := registry.New()
	concept := makeConcept("CHash")

	p := makeParam("P")
	makeInstance(reg, concept, true, []*registry.TypeParameterNode{p}, listOf(p))
	q := makeParam("Q")
	makeInstance(reg, concept, true, []*registry.TypeParameterNode{q}, listOf(q))

	witness, failure, err := Resolve(context.Background(), reg, NewScope(), concept, []typecheck.Type{listOf(tStr)})
	require.NoError(t, err)
	require.Nil(t, witness)

	require.NotNil(t, failure)
	assert.Equal(t, AmbiguousInstance, failure.Kind)
	assert.Len(t, failure.Candidates, 2)
}

func TestResolveNonOverlappableNeverTieBreaks(t *testing.T) {
	reg := registry.New()
	concept := makeConcept("CSize")

	blanketParam := makeParam("A")
	makeInstance(reg, concept, false, []*registry.TypeParameterNode{blanketParam}, blanketParam)

	element := makeParam("E")
	makeInstance(reg, concept, false, []*registry.TypeParameterNode{element}, listOf(element))

	// The List instance is strictly more specific, but neither opted into
	// overlap, so the request is ambiguous rather than tie-broken.
	witness, failure, err := Resolve(context.Background(), reg, NewScope(), concept, []typecheck.Type{listOf(tInt)})
	require.NoError(t, err)
	require.Nil(t, witness)

	require.NotNil(t, failure)
	assert.Equal(t, AmbiguousInstance, failure.Kind)
	assert.Len(t, failure.Candidates, 2)
}

func TestResolveDeterministic(t *testing.T) {
	reg := registry.New()
	concept := makeConcept("CSize")

	blanketParam := makeParam("A")
	makeInstance(reg, concept, true, []*registry.TypeParameterNode{blanketParam}, blanketParam)

	element := makeParam("E")
	listInstance := makeInstance(reg, concept, true, []*registry.TypeParameterNode{element}, listOf(element))

	for range 3 {
		witness, failure, err := Resolve(context.Background(), reg, NewScope(), concept, []typecheck.Type{listOf(tInt)})
		require.NoError(t, err)
		require.Nil(t, failure)
		assert.Same(t, listInstance, witness.(*Concrete).Instance)
	}
}

func TestResolveCancelled(t *testing.T) {
	reg := registry.New()
	concept := makeConcept("CMonoid")
	makeInstance(reg, concept, false, nil, tInt)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Resolve(ctx, reg, NewScope(), concept, []typecheck.Type{tInt})
	assert.Error(t, err)
}

func TestScopeIsPersistent(t *testing.T) {
	concept := makeConcept("CMonoid")
	abstract := &Abstract{Parameter: "d", Bound: concept, Args: []typecheck.Type{tInt}}

	empty := NewScope()
	extended := empty.With(abstract)

	_, ok := empty.Lookup(abstract.Key())
	assert.False(t, ok)

	found, ok := extended.Lookup(abstract.Key())
	require.True(t, ok)
	assert.Same(t, abstract, found)
}
