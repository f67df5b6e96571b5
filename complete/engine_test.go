package complete

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
	tInt  = typecheck.Con("Int")
	tStr  = typecheck.Con("Str")
	tPair = typecheck.Con("Pair")
)

func makeEngine() (*Engine, *registry.Registry) {
	reg := registry.New()
	return NewEngine(database.NewDb(), reg), reg
}

func makeParam(name string) *registry.TypeParameterNode {
	node := &registry.TypeParameterNode{Name: name, Facts: database.EmptyFacts()}
	database.SetNameFact(node, name)
	return node
}

func makeMember(name string, params []typecheck.Type, result typecheck.Type) *registry.MemberNode {
	node := &registry.MemberNode{Name: name, Params: params, Result: result, Facts: database.EmptyFacts()}
	database.SetNameFact(node, name)
	return node
}

func makeConcept(name string, parameters []*registry.TypeParameterNode, members ...*registry.MemberNode) *registry.ConceptNode {
	node := &registry.ConceptNode{Name: name, Parameters: parameters, Members: members, Facts: database.EmptyFacts()}
	database.SetNameFact(node, name)
	return node
}

func makeInstance(concept *registry.ConceptNode, arguments []typecheck.Type, members ...*registry.InstanceMemberNode) *registry.InstanceNode {
	node := &registry.InstanceNode{Concept: concept, Arguments: arguments, Members: members, Facts: database.EmptyFacts()}
	database.SetNameFact(node, registry.DisplayInstance(node))
	return node
}

func makeInstanceMember(name string, params []typecheck.Type, result typecheck.Type) *registry.InstanceMemberNode {
	node := &registry.InstanceMemberNode{Name: name, Params: params, Result: result, Facts: database.EmptyFacts()}
	database.SetNameFact(node, name)
	return node
}

func makeMethod(name string, params []typecheck.Type, result typecheck.Type) *registry.MethodNode {
	node := &registry.MethodNode{Name: name, Params: params, Result: result, Public: true, Facts: database.EmptyFacts()}
	database.SetNameFact(node, name)
	return node
}

func makeMonoid() (*registry.ConceptNode, *registry.MemberNode, *registry.MemberNode) {
	t := makeParam("T")
	appendMember := makeMember("Append", []typecheck.Type{t, t}, t)
	zero := makeMember("Zero", nil, t)
	zero.Static = true

	return makeConcept("CMonoid", []*registry.TypeParameterNode{t}, appendMember, zero), appendMember, zero
}

func TestDirectCompletion(t *testing.T) {
	engine, _ := makeEngine()
	cMonoid, _, _ := makeMonoid()

	instance := makeInstance(cMonoid, []typecheck.Type{tInt},
		makeInstanceMember("Append", []typecheck.Type{tInt, tInt}, tInt),
		makeInstanceMember("Zero", nil, tInt))

	completion, err := engine.Completion(context.Background(), instance)
	require.NoError(t, err)

	assert.True(t, completion.Complete())
	require.Len(t, completion.Implementations, 2)
	for _, implementation := range completion.Implementations {
		assert.NotNil(t, implementation.Direct)
		assert.Nil(t, implementation.Shim)
	}
	assert.Empty(t, completion.Shims)
}

func TestExtensionShimBindsDifferentName(t *testing.T) {
	engine, reg := makeEngine()
	cMonoid, appendMember, _ := makeMonoid()

	// Pair has no method named Append; Plus is the only public method whose
	// signature lines up, so the shim binds to it.
	plus := makeMethod("Plus", []typecheck.Type{tPair}, tPair)
	reg.RegisterTypeDef(&registry.TypeDefNode{Name: "Pair", Methods: []*registry.MethodNode{plus}, Facts: database.EmptyFacts()})

	instance := makeInstance(cMonoid, []typecheck.Type{tPair},
		makeInstanceMember("Zero", nil, tPair))

	completion, err := engine.Completion(context.Background(), instance)
	require.NoError(t, err)

	assert.True(t, completion.Complete())
	require.Len(t, completion.Shims, 1)
	assert.Same(t, appendMember, completion.Shims[0].Member)
	assert.Equal(t, ExtensionShim, completion.Shims[0].Provenance)
	assert.Same(t, database.Node(plus), completion.Shims[0].Target)
}

func TestExtensionShimNeverGuesses(t *testing.T) {
	engine, reg := makeEngine()
	cMonoid, appendMember, _ := makeMonoid()

	// Two differently named methods both align; binding either would be a
	// guess, so the member stays missing.
	reg.RegisterTypeDef(&registry.TypeDefNode{
		Name: "Pair",
		Methods: []*registry.MethodNode{
			makeMethod("Plus", []typecheck.Type{tPair}, tPair),
			makeMethod("Merge", []typecheck.Type{tPair}, tPair),
		},
		Facts: database.EmptyFacts(),
	})

	instance := makeInstance(cMonoid, []typecheck.Type{tPair},
		makeInstanceMember("Zero", nil, tPair))

	completion, err := engine.Completion(context.Background(), instance)
	require.NoError(t, err)

	assert.False(t, completion.Complete())
	assert.Equal(t, []*registry.MemberNode{appendMember}, completion.Missing)
}

func TestOperatorShimBeatsDefault(t *testing.T) {
	engine, reg := makeEngine()

	t1 := makeParam("T")
	plusMember := makeMember("+", []typecheck.Type{t1, t1}, t1)
	plusMember.HasDefault = true
	cAdd := makeConcept("CAdd", []*registry.TypeParameterNode{t1}, plusMember)

	vec := typecheck.Con("Vec")
	operator := makeMethod("+", []typecheck.Type{vec, vec}, vec)
	operator.Static = true
	reg.RegisterTypeDef(&registry.TypeDefNode{Name: "Vec", Methods: []*registry.MethodNode{operator}, Facts: database.EmptyFacts()})

	completion, err := engine.Completion(context.Background(), makeInstance(cAdd, []typecheck.Type{vec}))
	require.NoError(t, err)

	assert.True(t, completion.Complete())
	require.Len(t, completion.Shims, 1)
	assert.Equal(t, OperatorShim, completion.Shims[0].Provenance)
	assert.Same(t, database.Node(operator), completion.Shims[0].Target)
}

func TestDefaultShim(t *testing.T) {
	engine, _ := makeEngine()

	t1 := makeParam("T")
	plusMember := makeMember("+", []typecheck.Type{t1, t1}, t1)
	plusMember.HasDefault = true
	cAdd := makeConcept("CAdd", []*registry.TypeParameterNode{t1}, plusMember)

	completion, err := engine.Completion(context.Background(), makeInstance(cAdd, []typecheck.Type{tStr}))
	require.NoError(t, err)

	assert.True(t, completion.Complete())
	require.Len(t, completion.Shims, 1)
	assert.Equal(t, DefaultShim, completion.Shims[0].Provenance)
	assert.Same(t, database.Node(plusMember), completion.Shims[0].Target)
}

func TestMissingAndExcess(t *testing.T) {
	engine, _ := makeEngine()

	t1 := makeParam("T")
	zero := makeMember("Zero", nil, t1)
	zero.Static = true
	neg := makeMember("Neg", []typecheck.Type{t1}, t1)
	cNum := makeConcept("CNum", []*registry.TypeParameterNode{t1}, zero, neg)

	extra := makeInstanceMember("Extra", []typecheck.Type{tInt}, tInt)
	instance := makeInstance(cNum, []typecheck.Type{tInt},
		makeInstanceMember("Zero", nil, tInt),
		extra)

	completion, err := engine.Completion(context.Background(), instance)
	require.NoError(t, err)

	assert.False(t, completion.Complete())
	assert.Equal(t, []*registry.MemberNode{neg}, completion.Missing)
	assert.Equal(t, []*registry.InstanceMemberNode{extra}, completion.Excess)

	missing, ok := database.GetFact[MissingMembersFact](instance)
	require.True(t, ok)
	assert.Len(t, missing, 1)

	excess, ok := database.GetFact[ExcessMembersFact](instance)
	require.True(t, ok)
	assert.Len(t, excess, 1)
}

func TestMalformedDefaultStruct(t *testing.T) {
	engine, _ := makeEngine()

	t1 := makeParam("T")
	format := makeMember("Format", []typecheck.Type{t1}, tStr)
	format.HasDefault = true
	cFormat := makeConcept("CFormat", []*registry.TypeParameterNode{t1}, format)

	w1 := makeParam("W1")
	w1.Witness = true
	w2 := makeParam("W2")
	w2.Witness = true
	cFormat.DefaultStruct = &registry.DefaultStructNode{
		Name:       "FormatDefaults",
		Parameters: []*registry.TypeParameterNode{w1, w2},
		Facts:      database.EmptyFacts(),
	}

	completion, err := engine.Completion(context.Background(), makeInstance(cFormat, []typecheck.Type{tInt}))
	require.NoError(t, err)

	// A malformed struct is never used for shims, so the defaulted member
	// stays missing.
	assert.False(t, completion.Complete())
	assert.Equal(t, []*registry.MemberNode{format}, completion.Missing)

	_, ok := database.GetFact[DefaultStructMalformedFact](cFormat)
	assert.True(t, ok)
}

func TestExtensionFlagMismatchFallsBackToDefault(t *testing.T) {
	engine, reg := makeEngine()

	t1 := makeParam("T")
	concat := makeMember("Concat", []typecheck.Type{t1, t1}, t1)
	concat.Extension = true
	concat.HasDefault = true
	cJoin := makeConcept("CJoin", []*registry.TypeParameterNode{t1}, concat)

	buf := typecheck.Con("Buf")
	method := makeMethod("Concat", []typecheck.Type{buf}, buf)
	reg.RegisterTypeDef(&registry.TypeDefNode{Name: "Buf", Methods: []*registry.MethodNode{method}, Facts: database.EmptyFacts()})

	instance := makeInstance(cJoin, []typecheck.Type{buf})

	completion, err := engine.Completion(context.Background(), instance)
	require.NoError(t, err)

	assert.True(t, completion.Complete())
	require.Len(t, completion.Shims, 1)
	assert.Equal(t, DefaultShim, completion.Shims[0].Provenance)

	require.Len(t, completion.Mismatches, 1)
	assert.Same(t, concat, completion.Mismatches[0].Member)
	assert.Same(t, method, completion.Mismatches[0].Method)
}

func TestStandaloneInstancesAreComplete(t *testing.T) {
	engine, _ := makeEngine()

	instance := &registry.InstanceNode{
		Standalone: true,
		Members:    []*registry.InstanceMemberNode{makeInstanceMember("Clamp", []typecheck.Type{tInt, tInt, tInt}, tInt)},
		Facts:      database.EmptyFacts(),
	}
	database.SetNameFact(instance, "IntUtils")

	completion, err := engine.Completion(context.Background(), instance)
	require.NoError(t, err)

	assert.True(t, completion.Complete())
	assert.Empty(t, completion.Implementations)
	assert.Empty(t, completion.Excess)
}

func TestCompletionComputedOnce(t *testing.T) {
	engine, _ := makeEngine()
	cMonoid, _, _ := makeMonoid()

	instance := makeInstance(cMonoid, []typecheck.Type{tInt},
		makeInstanceMember("Append", []typecheck.Type{tInt, tInt}, tInt),
		makeInstanceMember("Zero", nil, tInt))

	first, err := engine.Completion(context.Background(), instance)
	require.NoError(t, err)
	second, err := engine.Completion(context.Background(), instance)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestCompletionCancelled(t *testing.T) {
	engine, _ := makeEngine()
	cMonoid, _, _ := makeMonoid()

	instance := makeInstance(cMonoid, []typecheck.Type{tInt},
		makeInstanceMember("Append", []typecheck.Type{tInt, tInt}, tInt),
		makeInstanceMember("Zero", nil, tInt))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Completion(ctx, instance)
	require.Error(t, err)

	// A cancelled computation publishes nothing; a later caller gets a fresh
	// verdict.
	completion, err := engine.Completion(context.Background(), instance)
	require.NoError(t, err)
	assert.True(t, completion.Complete())
}
