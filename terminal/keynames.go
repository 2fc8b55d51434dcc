package terminal

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// keyToName maps base keys to canonical config names
var keyToName = map[Key]string{
	KeyNull:      "null",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyEnter:     "enter",
	KeyEsc:       "escape",
	KeySpace:     "space",
	KeyDEL:       "del",

	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyPageUp:   "page_up",
	KeyPageDown: "page_down",
	KeyInsert:   "insert",
	KeyDelete:   "delete",
	KeyBacktab:  "backtab",

	KeyF1:  "f1",
	KeyF2:  "f2",
	KeyF3:  "f3",
	KeyF4:  "f4",
	KeyF5:  "f5",
	KeyF6:  "f6",
	KeyF7:  "f7",
	KeyF8:  "f8",
	KeyF9:  "f9",
	KeyF10: "f10",
	KeyF11: "f11",
	KeyF12: "f12",
}

// nameToKey is the reverse lookup, built from keyToName
var nameToKey map[string]Key

func init() {
	nameToKey = make(map[string]Key, len(keyToName)+8)
	for k, v := range keyToName {
		nameToKey[v] = k
	}
	// Aliases
	nameToKey["esc"] = KeyEsc
	nameToKey["return"] = KeyEnter
	nameToKey["pgup"] = KeyPageUp
	nameToKey["pgdn"] = KeyPageDown
	nameToKey["shift_tab"] = KeyBacktab
	nameToKey["ins"] = KeyInsert
}

// KeyName renders a key as "ctrl+alt+shift+name"
func KeyName(k Key) string {
	var sb strings.Builder
	base := k.Base()

	if k&CtrlMask != 0 {
		sb.WriteString("ctrl+")
	}
	if k&AltMask != 0 {
		sb.WriteString("alt+")
	}
	if k&ShiftMask != 0 {
		sb.WriteString("shift+")
	}

	name, named := keyToName[base]
	switch {
	case named:
		sb.WriteString(name)
	case base >= KeyCtrlA && base <= KeyCtrlZ:
		sb.WriteString("ctrl+")
		sb.WriteRune(rune('a' + base - KeyCtrlA))
	case base < specialBase:
		sb.WriteRune(rune(base))
	default:
		fmt.Fprintf(&sb, "key(%#x)", uint32(base))
	}
	return sb.String()
}

// ParseKey resolves a config key name such as "ctrl+q", "shift+tab", "f5" or "x".
// Ctrl with a letter yields the control character, matching what terminals send.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return KeyNull, fmt.Errorf("empty key name")
	}

	var mods Key
	rest := s
	for {
		lower := strings.ToLower(rest)
		switch {
		case strings.HasPrefix(lower, "ctrl+") && len(rest) > 5:
			mods |= CtrlMask
			rest = rest[5:]
			continue
		case strings.HasPrefix(lower, "alt+") && len(rest) > 4:
			mods |= AltMask
			rest = rest[4:]
			continue
		case strings.HasPrefix(lower, "shift+") && len(rest) > 6:
			mods |= ShiftMask
			rest = rest[6:]
			continue
		}
		break
	}

	var base Key
	if utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		base = Key(r)
	} else if k, ok := nameToKey[strings.ToLower(rest)]; ok {
		base = k
	} else {
		return KeyNull, fmt.Errorf("unknown key name %q", s)
	}

	// Ctrl+letter is the control character, Shift+Tab is Backtab
	if mods&CtrlMask != 0 {
		lr := base | 0x20
		if lr >= 'a' && lr <= 'z' && base < 0x80 {
			base = KeyCtrlA + (lr - 'a')
			mods &^= CtrlMask
		}
	}
	if base == KeyTab && mods&ShiftMask != 0 {
		base = KeyBacktab
		mods &^= ShiftMask
	}

	return base | mods, nil
}
