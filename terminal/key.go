package terminal

// Key is a symbolic key code: a base value in CharMask plus modifier bits.
// Printable keys use their Unicode code point as base; control characters keep
// their ASCII value (Ctrl+A = 0x01); special keys live above the Unicode range.
type Key uint32

const (
	CharMask  Key = 0x001f_ffff
	ShiftMask Key = 1 << 28
	CtrlMask  Key = 1 << 29
	AltMask   Key = 1 << 30
	ModMask       = ShiftMask | CtrlMask | AltMask
)

// Control characters
const (
	KeyNull      Key = 0
	KeyBackspace Key = 0x08
	KeyTab       Key = 0x09
	KeyEnter     Key = 0x0d
	KeyEsc       Key = 0x1b
	KeySpace     Key = 0x20
	KeyDEL       Key = 0x7f // Sent by most terminals for backspace
)

// Ctrl+letter (Ctrl+A = 0x01, Ctrl+Z = 0x1A)
const (
	KeyCtrlA Key = iota + 1
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH // Same as Backspace
	KeyCtrlI // Same as Tab
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM // Same as Enter
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
)

// specialBase is the first code above Unicode
const specialBase Key = 0x110000

// Special keys
const (
	KeyUp Key = specialBase + iota
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBacktab // Shift+Tab
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	keySpecialEnd
)

// Base strips modifier bits
func (k Key) Base() Key {
	return k & CharMask
}

// IsSpecial reports whether the base is a navigation or function key
func (k Key) IsSpecial() bool {
	b := k.Base()
	return b >= specialBase && b < keySpecialEnd
}

// WithShift, WithAlt and WithCtrl add a modifier bit
func (k Key) WithShift() Key { return k | ShiftMask }
func (k Key) WithAlt() Key   { return k | AltMask }
func (k Key) WithCtrl() Key  { return k | CtrlMask }

// KeyEvent is a key press delivered by a driver
type KeyEvent struct {
	Key        Key
	CapsLock   bool
	NumLock    bool
	ScrollLock bool
}

// Base returns the key without modifier bits
func (e KeyEvent) Base() Key {
	return e.Key.Base()
}

// Rune returns the printable character, or 0 for control and special keys
func (e KeyEvent) Rune() rune {
	b := e.Key.Base()
	if b < KeySpace || b == KeyDEL || b >= specialBase {
		return 0
	}
	return rune(b)
}

func (e KeyEvent) IsShift() bool { return e.Key&ShiftMask != 0 }
func (e KeyEvent) IsAlt() bool   { return e.Key&AltMask != 0 }

// IsCtrl reports the ctrl bit or a Ctrl+letter control character
func (e KeyEvent) IsCtrl() bool {
	if e.Key&CtrlMask != 0 {
		return true
	}
	b := e.Key.Base()
	return b >= KeyCtrlA && b <= KeyCtrlZ && b != KeyTab && b != KeyEnter && b != KeyBackspace
}

// IsCtrlChar reports whether the base is an ASCII control character
func (e KeyEvent) IsCtrlChar() bool {
	b := e.Key.Base()
	return b < KeySpace || b == KeyDEL
}

func (e KeyEvent) String() string {
	return KeyName(e.Key)
}
