package database

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Facts is the per-node fact store. The host compiler checks many
// declarations in parallel, so reads and writes are guarded; a fact written
// twice keeps the later value, which is why derived data that must be
// computed at most once lives in a Table instead.
type Facts struct {
	mu sync.RWMutex
	m  map[reflect.Type]any
}

func EmptyFacts() *Facts {
	return &Facts{m: map[reflect.Type]any{}}
}

func NewFacts(span Span) *Facts {
	facts := EmptyFacts()
	facts.m[reflect.TypeFor[SpanFact]()] = SpanFact(span)
	return facts
}

func GetFact[T any](node Node) (T, bool) {
	facts := node.GetFacts()
	facts.mu.RLock()
	defer facts.mu.RUnlock()

	fact, ok := facts.m[reflect.TypeFor[T]()].(T)
	return fact, ok
}

func SetFact[T any](node Node, fact T) {
	facts := node.GetFacts()
	facts.mu.Lock()
	defer facts.mu.Unlock()

	facts.m[reflect.TypeFor[T]()] = fact
}

func CloneFacts(facts *Facts) *Facts {
	facts.mu.RLock()
	defer facts.mu.RUnlock()

	return &Facts{m: maps.Clone(facts.m)}
}

type SpanFact Span

func (fact SpanFact) String() string {
	return fmt.Sprintf("at %v", Span(fact))
}

func SetSpanFact(node Node, span Span) {
	SetFact(node, SpanFact(span))
}

func GetSpanFact(node Node) Span {
	span, ok := GetFact[SpanFact](node)
	if !ok {
		return NullSpan()
	}

	return Span(span)
}

// NameFact holds the declared name of a symbol. Declarations arrive from the
// host compiler already bound, so there is no source text to render; the
// name is the display form.
type NameFact string

func (fact NameFact) String() string {
	return ""
}

func SetNameFact(node Node, name string) {
	SetFact(node, NameFact(name))
}

func GetNameFact(node Node) string {
	name, ok := GetFact[NameFact](node)
	if !ok {
		return "_"
	}

	return string(name)
}

func (facts *Facts) String() string {
	facts.mu.RLock()
	defer facts.mu.RUnlock()

	s := ""

	keys := make([]reflect.Type, 0, len(facts.m))
	for key := range facts.m {
		keys = append(keys, key)
	}

	slices.SortFunc(keys, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})

	for _, key := range keys {
		value := facts.m[key]

		if stringer, ok := value.(fmt.Stringer); ok {
			valueString := stringer.String()
			if valueString != "" {
				s += fmt.Sprintf("  %v\n", valueString)
			}
		} else {
			s += fmt.Sprintf("  %s(%v)\n", reflect.TypeOf(value).Name(), value)
		}
	}

	if s == "" {
		s = "  (no facts)\n"
	}

	return s
}
