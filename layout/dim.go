package layout

import (
	"fmt"
	"math"

	"github.com/lixenwraith/termkit/fault"
)

// Dim is a size expression
type Dim interface {
	// Anchor evaluates the expression against the extent available to the view
	Anchor(extent int) int
	String() string
	walk(fn func(Target))
}

type dimAbsolute struct{ n int }

func (d dimAbsolute) Anchor(int) int { return d.n }
func (d dimAbsolute) String() string { return fmt.Sprintf("Sized(%d)", d.n) }
func (d dimAbsolute) walk(func(Target)) {}

type dimFactor struct {
	factor    float64
	remaining bool // Anchored against the extent after the view's position
}

func (d dimFactor) Anchor(extent int) int { return int(math.Round(float64(extent) * d.factor)) }
func (d dimFactor) walk(func(Target)) {}

func (d dimFactor) String() string {
	return fmt.Sprintf("Percent(%g,remaining=%t)", d.factor*100, d.remaining)
}

type dimFill struct{ margin int }

func (d dimFill) Anchor(extent int) int { return extent - d.margin }
func (d dimFill) String() string        { return fmt.Sprintf("Fill(%d)", d.margin) }
func (d dimFill) walk(func(Target)) {}

type dimView struct {
	target Target
	side   Side
}

func (d dimView) Anchor(int) int       { return readSide(d.target, d.side) }
func (d dimView) String() string       { return fmt.Sprintf("View(%s,%v)", d.side, d.target) }
func (d dimView) walk(fn func(Target)) { fn(d.target) }

type dimCombine struct {
	left, right Dim
	subtract    bool
}

func (d dimCombine) Anchor(extent int) int {
	if d.subtract {
		return d.left.Anchor(extent) - d.right.Anchor(extent)
	}
	return d.left.Anchor(extent) + d.right.Anchor(extent)
}

func (d dimCombine) String() string {
	op := "+"
	if d.subtract {
		op = "-"
	}
	return fmt.Sprintf("(%v %s %v)", d.left, op, d.right)
}

func (d dimCombine) walk(fn func(Target)) {
	d.left.walk(fn)
	d.right.walk(fn)
}

// Sized returns an absolute size
func Sized(n int) Dim {
	return dimAbsolute{n: n}
}

// PercentDim returns p percent of the container extent, p in [0,100].
// With remaining set the percentage applies to the extent after the view's position.
func PercentDim(p float64, remaining bool) (Dim, error) {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return nil, fault.Invalid("layout.PercentDim", "percent %g outside [0,100]", p)
	}
	return dimFactor{factor: p / 100, remaining: remaining}, nil
}

// MustPercentDim is PercentDim that panics on an invalid argument
func MustPercentDim(p float64, remaining bool) Dim {
	d, err := PercentDim(p, remaining)
	if err != nil {
		panic(err)
	}
	return d
}

// Fill takes the space left after the view's position minus margin
func Fill(margin int) (Dim, error) {
	if margin < 0 {
		return nil, fault.Invalid("layout.Fill", "negative margin %d", margin)
	}
	return dimFill{margin: margin}, nil
}

// MustFill is Fill that panics on an invalid argument
func MustFill(margin int) Dim {
	d, err := Fill(margin)
	if err != nil {
		panic(err)
	}
	return d
}

// Width is the referenced view's width
func Width(t Target) Dim { return dimView{target: t, side: SideWidth} }

// Height is the referenced view's height
func Height(t Target) Dim { return dimView{target: t, side: SideHeight} }

// AddDim sums two sizes; two constants fold into one
func AddDim(a, b Dim) Dim {
	return combineDim(a, b, false)
}

// SubDim subtracts b from a; two constants fold into one
func SubDim(a, b Dim) Dim {
	return combineDim(a, b, true)
}

func combineDim(a, b Dim, subtract bool) Dim {
	if a == nil {
		a = Sized(0)
	}
	if b == nil {
		b = Sized(0)
	}
	ca, okA := a.(dimAbsolute)
	cb, okB := b.(dimAbsolute)
	if okA && okB {
		if subtract {
			return dimAbsolute{n: ca.n - cb.n}
		}
		return dimAbsolute{n: ca.n + cb.n}
	}
	return dimCombine{left: a, right: b, subtract: subtract}
}

// DimTargets lists the views d reads, in expression order, without duplicates
func DimTargets(d Dim) []Target {
	if d == nil {
		return nil
	}
	var out []Target
	d.walk(func(t Target) { out = appendTarget(out, t) })
	return out
}
