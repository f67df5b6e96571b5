package resolve

import (
	"github.com/benbjohnson/immutable"
)

// Scope carries the abstract witnesses in effect for the body being bound:
// one per capability the enclosing generic function requires. Extending a
// scope shares structure with the parent, so nested bodies never copy.
type Scope struct {
	witnesses *immutable.Map[string, *Abstract]
}

func NewScope() Scope {
	return Scope{
		witnesses: immutable.NewMap[string, *Abstract](nil),
	}
}

func (s Scope) With(witness *Abstract) Scope {
	return Scope{
		witnesses: s.witnesses.Set(witness.Key(), witness),
	}
}

func (s Scope) Lookup(key string) (*Abstract, bool) {
	return s.witnesses.Get(key)
}

func (s Scope) Len() int {
	return s.witnesses.Len()
}
