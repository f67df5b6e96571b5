package database

import (
	"fmt"
	"io"
	"slices"
	"sync"
)

// Db tracks every node created during a compilation unit, in registration
// order. Registration happens from multiple worker goroutines (instance
// completion synthesizes nodes in parallel), so it is guarded; iteration
// takes a snapshot.
type Db struct {
	mu    sync.RWMutex
	nodes []Node
}

func NewDb() *Db {
	return &Db{
		nodes: []Node{},
	}
}

func (db *Db) Register(node Node) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.nodes = append(db.nodes, node)
}

func (db *Db) Nodes() []Node {
	db.mu.RLock()
	defer db.mu.RUnlock()

	nodes := make([]Node, len(db.nodes))
	copy(nodes, db.nodes)
	return nodes
}

func ContainsNode(db *Db, f func(node Node) bool) bool {
	return slices.ContainsFunc(db.Nodes(), f)
}

func ContainsFact[T any, U any](db *Db, f func(node Node, fact T) (U, bool)) (U, bool) {
	for _, node := range db.Nodes() {
		if fact, ok := GetFact[T](node); ok {
			if result, ok := f(node, fact); ok {
				return result, true
			}
		}
	}

	var zero U
	return zero, false
}

func (db *Db) Write(w io.Writer, filter func(node Node) bool) {
	nodes := db.Nodes()
	slices.SortStableFunc(nodes, func(left Node, right Node) int {
		return CompareSpans(GetSpanFact(left), GetSpanFact(right))
	})

	for _, node := range nodes {
		if IsHiddenNode(node) || (filter != nil && !filter(node)) {
			continue
		}

		_, err := fmt.Fprintf(w, "%v\n%v\n", DisplayNode(node), node.GetFacts())
		if err != nil {
			panic(err)
		}
	}
}
