package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"x", Key('x')},
		{"X", Key('X')},
		{"ctrl+q", KeyCtrlQ},
		{"Ctrl+Q", KeyCtrlQ},
		{"tab", KeyTab},
		{"shift+tab", KeyBacktab},
		{"backtab", KeyBacktab},
		{"esc", KeyEsc},
		{"escape", KeyEsc},
		{"enter", KeyEnter},
		{"f5", KeyF5},
		{"page_up", KeyPageUp},
		{"pgdn", KeyPageDown},
		{"alt+x", Key('x') | AltMask},
		{"ctrl+alt+d", KeyCtrlD | AltMask},
		{"shift+f2", KeyF2 | ShiftMask},
		{"ctrl+up", KeyUp | CtrlMask},
		{"+", Key('+')},
		{"ctrl++", Key('+') | CtrlMask},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeyRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "hyper+x", "f13", "ctrl+"} {
		_, err := ParseKey(in)
		assert.Error(t, err, in)
	}
}

func TestKeyNameRoundTrip(t *testing.T) {
	for _, k := range []Key{KeyCtrlQ, KeyTab, KeyBacktab, KeyF12, Key('a') | AltMask, KeyLeft | ShiftMask | CtrlMask, Key('é')} {
		name := KeyName(k)
		got, err := ParseKey(name)
		require.NoError(t, err, name)
		assert.Equal(t, k, got, name)
	}
	assert.Equal(t, "ctrl+q", KeyName(KeyCtrlQ))
	assert.Equal(t, "ctrl+shift+left", KeyName(KeyLeft|ShiftMask|CtrlMask))
}

func TestKeyEventQueries(t *testing.T) {
	ev := KeyEvent{Key: KeyCtrlC}
	assert.True(t, ev.IsCtrl())
	assert.True(t, ev.IsCtrlChar())
	assert.Equal(t, rune(0), ev.Rune())

	ev = KeyEvent{Key: KeyTab}
	assert.False(t, ev.IsCtrl(), "tab is not reported as ctrl+i")
	assert.True(t, ev.IsCtrlChar())

	ev = KeyEvent{Key: Key('A') | ShiftMask}
	assert.True(t, ev.IsShift())
	assert.False(t, ev.IsAlt())
	assert.Equal(t, 'A', ev.Rune())
	assert.Equal(t, Key('A'), ev.Base())

	ev = KeyEvent{Key: KeyF1}
	assert.True(t, ev.Key.IsSpecial())
	assert.Equal(t, rune(0), ev.Rune())
	assert.Equal(t, "f1", ev.String())
}

func TestMouseFlags(t *testing.T) {
	f := Button1Pressed | ButtonCtrl
	assert.True(t, f.Has(AnyPressed))
	assert.False(t, f.Has(AnyClicked))
	assert.Equal(t, "b1-pressed|ctrl", f.String())
	assert.Equal(t, "none", MouseFlags(0).String())
}

func TestColor(t *testing.T) {
	c := NewRGB(0x12, 0xab, 0xff)
	assert.True(t, c.IsRGB())
	assert.Equal(t, RGB{0x12, 0xab, 0xff}, c.RGB())
	assert.Equal(t, "#12abff", c.String())
	assert.False(t, ColorRed.IsRGB())
	assert.False(t, ColorDefault.IsRGB())

	got, err := ParseColor("#12abff")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	got, err = ParseColor("Yellow")
	require.NoError(t, err)
	assert.Equal(t, ColorYellow, got)

	_, err = ParseColor("chartreuse")
	assert.Error(t, err)
}

func TestAttributeTable(t *testing.T) {
	var tab AttributeTable
	assert.Equal(t, AttrDefault, tab.MakeAttribute(DefaultPair))

	p := ColorPair{Fg: ColorWhite, Bg: ColorBlue}
	a := tab.MakeAttribute(p)
	assert.NotEqual(t, AttrDefault, a)
	assert.Equal(t, a, tab.MakeAttribute(p), "same pair, same handle")
	assert.Equal(t, p, tab.Pair(a))

	b := tab.MakeAttribute(ColorPair{Fg: ColorWhite, Bg: ColorBlue, Style: StyleBold})
	assert.NotEqual(t, a, b)
	assert.Equal(t, DefaultPair, tab.Pair(99))
}
