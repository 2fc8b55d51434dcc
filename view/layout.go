package view

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/termkit/dag"
	"github.com/lixenwraith/termkit/fault"
	"github.com/lixenwraith/termkit/geom"
	"github.com/lixenwraith/termkit/layout"
)

// X, Y, Width and Height return the layout expressions; nil when unset
func (v *View) X() layout.Pos      { return v.x }
func (v *View) Y() layout.Pos      { return v.y }
func (v *View) Width() layout.Dim  { return v.w }
func (v *View) Height() layout.Dim { return v.h }

// SetX and friends switch the view to computed layout
func (v *View) SetX(p layout.Pos) {
	v.x = p
	v.style = Computed
	v.SetNeedsLayout()
}

func (v *View) SetY(p layout.Pos) {
	v.y = p
	v.style = Computed
	v.SetNeedsLayout()
}

func (v *View) SetWidth(d layout.Dim) {
	v.w = d
	v.style = Computed
	v.SetNeedsLayout()
}

func (v *View) SetHeight(d layout.Dim) {
	v.h = d
	v.style = Computed
	v.SetNeedsLayout()
}

// SetFrame assigns an absolute frame
func (v *View) SetFrame(r geom.Rect) {
	v.style = Absolute
	v.setFrame(r)
}

// setFrame moves the view and damages both old and new areas in the container
func (v *View) setFrame(r geom.Rect) {
	r = geom.NewRect(r.X, r.Y, r.Width, r.Height)
	if r == v.frame {
		return
	}
	old := v.frame
	v.frame = r
	if r.Size() != old.Size() {
		v.needsLayout = true
	}
	if v.parent != nil && v.visible {
		v.parent.MarkDamaged(old.Union(r))
	} else {
		v.MarkAllDamaged()
	}
}

// NeedsLayout reports a pending layout pass
func (v *View) NeedsLayout() bool { return v.needsLayout }

// SetNeedsLayout flags the view and its containers for the next layout pass
func (v *View) SetNeedsLayout() {
	for w := v; w != nil && !w.needsLayout; w = w.parent {
		w.needsLayout = true
	}
}

// Relayout resolves the view's own frame against host, then its subtree
func (v *View) Relayout(host geom.Size) error {
	if v.style == Computed {
		v.setFrame(layout.Resolve(v.x, v.y, v.w, v.h, host, v.frame))
	}
	return v.LayoutSubviews()
}

// LayoutSubviews resolves every computed view below v in one pass.
// The subtree is sorted so that a view is resolved after its container and
// after any view its expressions read, wherever that view sits in the
// subtree. A cycle aborts the pass with a layout fault naming one edge.
// References to views outside the subtree read their current frame.
func (v *View) LayoutSubviews() error {
	nodes := v.subtree()
	before := make(map[*View]geom.Rect, len(nodes))
	for _, n := range nodes {
		before[n] = n.frame
	}

	order, err := v.layoutOrder(nodes)
	if err != nil {
		return err
	}

	for _, n := range order {
		if n == v || n.style != Computed {
			continue
		}
		n.setFrame(layout.Resolve(n.x, n.y, n.w, n.h, n.parent.frame.Size(), n.frame))
	}

	v.completeLayout(before)
	return nil
}

// subtree lists v and its descendants in pre-order
func (v *View) subtree() []*View {
	nodes := []*View{v}
	for i := 0; i < len(nodes); i++ {
		nodes = append(nodes, nodes[i].children...)
	}
	return nodes
}

// layoutOrder sorts nodes (v first) so containers and referenced views
// come before the views depending on them
func (v *View) layoutOrder(nodes []*View) ([]*View, error) {
	in := make(map[*View]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}

	var edges []dag.Edge[*View]
	for _, n := range nodes[1:] {
		edges = append(edges, dag.Edge[*View]{From: n.parent, To: n})
		if n.style != Computed {
			continue
		}
		for _, t := range n.layoutTargets() {
			if dep, ok := t.(*View); ok && in[dep] {
				edges = append(edges, dag.Edge[*View]{From: dep, To: n})
			}
		}
	}

	order, err := dag.Sort(nodes, edges)
	if err != nil {
		var ce *dag.CycleError[*View]
		if errors.As(err, &ce) {
			return nil, fault.New("view.LayoutSubviews", fault.KindLayout,
				fmt.Errorf("%w: %s depends on %s in %s", fault.ErrCyclicLayout, ce.To, ce.From, v))
		}
		return nil, err
	}
	return order, nil
}

// completeLayout clears the layout flags bottom up and emits LayoutComplete
// with each view's frame from before the pass
func (v *View) completeLayout(before map[*View]geom.Rect) {
	for _, c := range v.children {
		c.completeLayout(before)
	}
	v.needsLayout = false
	v.LayoutComplete.Emit(before[v])
}

func (v *View) layoutTargets() []layout.Target {
	var ts []layout.Target
	ts = append(ts, layout.Targets(v.x)...)
	ts = append(ts, layout.Targets(v.y)...)
	ts = append(ts, layout.DimTargets(v.w)...)
	ts = append(ts, layout.DimTargets(v.h)...)
	return ts
}
