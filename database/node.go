package database

import (
	"fmt"
	"reflect"

	"conceptc/colors"
)

type Node interface {
	GetFacts() *Facts
}

// HiddenNode backs synthesized entities (instantiated type parameters,
// dictionary locals) that should not appear in fact dumps.
type HiddenNode struct {
	Facts *Facts
}

func (node *HiddenNode) GetFacts() *Facts {
	return node.Facts
}

var hiddenNodes = map[reflect.Type]struct{}{
	reflect.TypeFor[*HiddenNode](): {},
}

func HideNode[T Node]() {
	hiddenNodes[reflect.TypeFor[T]()] = struct{}{}
}

func IsHiddenNode(node Node) bool {
	_, ok := hiddenNodes[reflect.TypeOf(node)]
	return ok
}

func DisplayNode(node Node) string {
	return fmt.Sprintf("%s %s", reflect.TypeOf(node).Elem().Name(), RenderNode(node))
}

func RenderNode(node Node) string {
	name := GetNameFact(node)

	span := GetSpanFact(node)
	if span.Path == "" {
		return colors.Code(name)
	}

	return fmt.Sprintf("%s %s", colors.Code(name), colors.Extra(span.String()))
}

type FilterFunc func(node Node) bool

func PathFilter(path string) FilterFunc {
	return func(node Node) bool {
		span := GetSpanFact(node)
		return span.Path == path
	}
}

func LineFilter(path string, line int) FilterFunc {
	return func(node Node) bool {
		span := GetSpanFact(node)
		return span.Path == path && span.Line == line
	}
}
