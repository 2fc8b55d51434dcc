package view

import "github.com/lixenwraith/termkit/geom"

// MarkDamaged grows the damage rectangle to cover r (view coordinates).
// Ancestors learn a descendant needs drawing; visible children under r are
// damaged too, since repainting this view paints over them.
func (v *View) MarkDamaged(r geom.Rect) {
	if r.Empty() {
		return
	}
	v.damage = v.damage.Union(r)

	for p := v.parent; p != nil && !p.childDamaged; p = p.parent {
		p.childDamaged = true
	}

	for _, c := range v.children {
		if !c.visible {
			continue
		}
		if cr := r.Intersect(c.frame); !cr.Empty() {
			c.MarkDamaged(cr.Offset(-c.frame.X, -c.frame.Y))
		}
	}
}

// MarkAllDamaged damages the whole view
func (v *View) MarkAllDamaged() {
	v.MarkDamaged(v.Bounds())
}

// Damage returns the pending damage rectangle in view coordinates
func (v *View) Damage() geom.Rect { return v.damage }

// ChildDamaged reports that a descendant has pending damage
func (v *View) ChildDamaged() bool { return v.childDamaged }

// NeedsDisplay reports whether drawing the view would do anything
func (v *View) NeedsDisplay() bool {
	return !v.damage.Empty() || v.childDamaged || v.needsLayout
}

// clearDamage forgets damage covered by dirty and recomputes the child flag
func (v *View) clearDamage(dirty geom.Rect) {
	if dirty.Intersect(v.damage) == v.damage {
		v.damage = geom.Rect{}
	}
	v.childDamaged = false
	for _, c := range v.children {
		if c.visible && (!c.damage.Empty() || c.childDamaged) {
			v.childDamaged = true
			break
		}
	}
	v.needsLayout = false
}
