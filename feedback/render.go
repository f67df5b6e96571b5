package feedback

import (
	"bytes"
	"fmt"

	"conceptc/colors"
	"conceptc/database"
	"conceptc/typecheck"
)

type Render struct {
	db  *database.Db
	buf bytes.Buffer
}

func NewRender(db *database.Db) *Render {
	return &Render{db: db}
}

func (render *Render) WriteString(s string) {
	fmt.Fprintf(&render.buf, "%s", s)
}

func (render *Render) WriteBreak() {
	fmt.Fprintf(&render.buf, "\n\n")
}

func (render *Render) WriteNumber(n int, singular string, plural string) {
	if n == 1 {
		fmt.Fprintf(&render.buf, "%d %s", n, singular)
	} else {
		fmt.Fprintf(&render.buf, "%d %s", n, plural)
	}
}

func (render *Render) WriteNode(node database.Node) {
	fmt.Fprintf(&render.buf, "%s", database.RenderNode(node))
}

func (render *Render) WriteCode(code string) {
	fmt.Fprintf(&render.buf, "%s", colors.Code(code))
}

func (render *Render) WriteType(ty typecheck.Type) {
	fmt.Fprintf(&render.buf, "%s", colors.Code(typecheck.DisplayType(ty)))
}

func (render *Render) WriteList(items []func(), separator string) {
	for i, item := range items {
		if i > 0 && i == len(items)-1 {
			fmt.Fprintf(&render.buf, " %s ", separator)
		} else if i > 0 {
			fmt.Fprintf(&render.buf, ", ")
		}

		item()
	}
}

func (render *Render) Finish() string {
	return render.buf.String()
}
