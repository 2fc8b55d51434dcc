// Package layout implements declarative position and size expressions.
//
// A Pos or Dim is an immutable expression evaluated against a container
// extent. View-relative terms read another view's frame at evaluation time;
// they are not live bindings, so the referenced view must be resolved first.
// The view package orders resolution from the Targets each expression names.
//
// All expression values are comparable with ==: constant, percentage and
// anchor-end terms compare structurally, view-relative terms by target identity.
package layout

import (
	"fmt"
	"math"

	"github.com/lixenwraith/termkit/fault"
	"github.com/lixenwraith/termkit/geom"
)

// Target is anything with a resolved frame in its container's coordinates
type Target interface {
	Frame() geom.Rect
}

// Side selects the edge or extent a view-relative term reads
type Side uint8

const (
	SideLeft Side = iota
	SideTop
	SideRight
	SideBottom
	SideWidth
	SideHeight
)

var sideNames = [...]string{"left", "top", "right", "bottom", "width", "height"}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return "side?"
}

func readSide(t Target, s Side) int {
	f := t.Frame()
	switch s {
	case SideLeft:
		return f.X
	case SideTop:
		return f.Y
	case SideRight:
		return f.Right()
	case SideBottom:
		return f.Bottom()
	case SideWidth:
		return f.Width
	case SideHeight:
		return f.Height
	}
	return 0
}

// Pos is a position expression
type Pos interface {
	// Anchor evaluates the expression against a container extent
	Anchor(extent int) int
	String() string
	walk(fn func(Target))
}

type posAbsolute struct{ n int }

func (p posAbsolute) Anchor(int) int { return p.n }
func (p posAbsolute) String() string { return fmt.Sprintf("At(%d)", p.n) }
func (p posAbsolute) walk(func(Target)) {}

type posFactor struct{ factor float64 }

func (p posFactor) Anchor(extent int) int { return int(math.Round(float64(extent) * p.factor)) }
func (p posFactor) String() string        { return fmt.Sprintf("Percent(%g)", p.factor*100) }
func (p posFactor) walk(func(Target)) {}

type posCenter struct{}

func (posCenter) Anchor(extent int) int { return extent / 2 }
func (posCenter) String() string        { return "Center()" }
func (posCenter) walk(func(Target)) {}

type posAnchorEnd struct{ margin int }

func (p posAnchorEnd) Anchor(extent int) int { return extent - p.margin }
func (p posAnchorEnd) String() string        { return fmt.Sprintf("AnchorEnd(%d)", p.margin) }
func (p posAnchorEnd) walk(func(Target)) {}

type posView struct {
	target Target
	side   Side
}

func (p posView) Anchor(int) int       { return readSide(p.target, p.side) }
func (p posView) String() string       { return fmt.Sprintf("View(%s,%v)", p.side, p.target) }
func (p posView) walk(fn func(Target)) { fn(p.target) }

type posCombine struct {
	left, right Pos
	subtract    bool
}

func (p posCombine) Anchor(extent int) int {
	if p.subtract {
		return p.left.Anchor(extent) - p.right.Anchor(extent)
	}
	return p.left.Anchor(extent) + p.right.Anchor(extent)
}

func (p posCombine) String() string {
	op := "+"
	if p.subtract {
		op = "-"
	}
	return fmt.Sprintf("(%v %s %v)", p.left, op, p.right)
}

func (p posCombine) walk(fn func(Target)) {
	p.left.walk(fn)
	p.right.walk(fn)
}

// At returns an absolute position
func At(n int) Pos {
	return posAbsolute{n: n}
}

// Percent returns a position at p percent of the container extent, p in [0,100]
func Percent(p float64) (Pos, error) {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return nil, fault.Invalid("layout.Percent", "percent %g outside [0,100]", p)
	}
	return posFactor{factor: p / 100}, nil
}

// MustPercent is Percent that panics on an invalid argument
func MustPercent(p float64) Pos {
	pos, err := Percent(p)
	if err != nil {
		panic(err)
	}
	return pos
}

// Center centers the view; resolution anchors it against the extent left after its size
func Center() Pos {
	return posCenter{}
}

// AnchorEnd returns a position margin cells before the container's far edge
func AnchorEnd(margin int) (Pos, error) {
	if margin < 0 {
		return nil, fault.Invalid("layout.AnchorEnd", "negative margin %d", margin)
	}
	return posAnchorEnd{margin: margin}, nil
}

// MustAnchorEnd is AnchorEnd that panics on an invalid argument
func MustAnchorEnd(margin int) Pos {
	pos, err := AnchorEnd(margin)
	if err != nil {
		panic(err)
	}
	return pos
}

// Left is the referenced view's left edge
func Left(t Target) Pos { return posView{target: t, side: SideLeft} }

// X is an alias of Left
func X(t Target) Pos { return Left(t) }

// Top is the referenced view's top edge
func Top(t Target) Pos { return posView{target: t, side: SideTop} }

// Y is an alias of Top
func Y(t Target) Pos { return Top(t) }

// Right is the referenced view's exclusive right edge
func Right(t Target) Pos { return posView{target: t, side: SideRight} }

// Bottom is the referenced view's exclusive bottom edge
func Bottom(t Target) Pos { return posView{target: t, side: SideBottom} }

// AddPos sums two positions; two constants fold into one
func AddPos(a, b Pos) Pos {
	return combinePos(a, b, false)
}

// SubPos subtracts b from a; two constants fold into one
func SubPos(a, b Pos) Pos {
	return combinePos(a, b, true)
}

func combinePos(a, b Pos, subtract bool) Pos {
	if a == nil {
		a = At(0)
	}
	if b == nil {
		b = At(0)
	}
	ca, okA := a.(posAbsolute)
	cb, okB := b.(posAbsolute)
	if okA && okB {
		if subtract {
			return posAbsolute{n: ca.n - cb.n}
		}
		return posAbsolute{n: ca.n + cb.n}
	}
	return posCombine{left: a, right: b, subtract: subtract}
}

// IsCenter reports whether p is a bare Center term
func IsCenter(p Pos) bool {
	_, ok := p.(posCenter)
	return ok
}

// IsAbsolute reports whether p is a constant, returning its value
func IsAbsolute(p Pos) (int, bool) {
	c, ok := p.(posAbsolute)
	return c.n, ok
}

// Targets lists the views p reads, in expression order, without duplicates
func Targets(p Pos) []Target {
	if p == nil {
		return nil
	}
	var out []Target
	p.walk(func(t Target) { out = appendTarget(out, t) })
	return out
}

func appendTarget(list []Target, t Target) []Target {
	for _, have := range list {
		if have == t {
			return list
		}
	}
	return append(list, t)
}
