package vm

import (
	"fmt"

	"github.com/josharian/intern"
	"github.com/rami3l/blox/arena"
)

// Heap owns every Obj of a session. It is shared by the compiler, which
// allocates identifiers and string literals, and the VM, which allocates
// concatenation results.
type Heap struct {
	objs *arena.Arena[Obj]
	// idents maps an identifier's name to its unique slot in objs.
	idents map[string]VObj
}

func NewHeap() *Heap {
	return &Heap{objs: arena.New[Obj](), idents: make(map[string]VObj)}
}

func (h *Heap) NewStr(s string) VObj { return VObj(h.objs.Push(ObjStr(s))) }

// Ident returns the handle of the identifier called name, allocating it on first use.
func (h *Heap) Ident(name string) VObj {
	if v, ok := h.idents[name]; ok {
		return v
	}
	name = intern.String(name)
	v := VObj(h.objs.Push(ObjIdent(name)))
	h.idents[name] = v
	return v
}

func (h *Heap) Get(v VObj) Obj { return h.objs.Get(int(v)) }

func (h *Heap) Len() int { return h.objs.Len() }

// Show renders v the way `print` does, resolving objects through the heap.
func (h *Heap) Show(v Value) string {
	if o, ok := v.(VObj); ok {
		return h.Get(o).Text()
	}
	return fmt.Sprint(v)
}

// Quote is like Show, but wraps strings in double quotes for diagnostics.
func (h *Heap) Quote(v Value) string {
	if o, ok := v.(VObj); ok {
		if s, ok := h.Get(o).(ObjStr); ok {
			return fmt.Sprintf("%q", string(s))
		}
	}
	return h.Show(v)
}
