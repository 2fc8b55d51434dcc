package view

import (
	"maps"
	"slices"

	"github.com/lixenwraith/termkit/fault"
	"github.com/lixenwraith/termkit/terminal"
)

// Command identifies an abstract action a view supports
type Command string

// Commands with engine-level meaning; widgets define their own
const (
	CmdQuit     Command = "quit"
	CmdNextView Command = "next_view"
	CmdPrevView Command = "prev_view"
	CmdSuspend  Command = "suspend"
	CmdRefresh  Command = "refresh"
	CmdAccept   Command = "accept"
	CmdCancel   Command = "cancel"
)

// AddCommand registers the handler for cmd, replacing any previous one
func (v *View) AddCommand(cmd Command, fn func() bool) {
	if v.commands == nil {
		v.commands = make(map[Command]func() bool)
	}
	v.commands[cmd] = fn
}

// Supports reports whether cmd has a handler
func (v *View) Supports(cmd Command) bool {
	_, ok := v.commands[cmd]
	return ok
}

// SupportedCommands lists registered commands in sorted order
func (v *View) SupportedCommands() []Command {
	return slices.Sorted(maps.Keys(v.commands))
}

// InvokeCommand runs the handler for cmd; false when unhandled or unsupported
func (v *View) InvokeCommand(cmd Command) bool {
	fn, ok := v.commands[cmd]
	if !ok || fn == nil {
		return false
	}
	return fn()
}

// AddKeyBinding binds key to an ordered command list, replacing any previous
// binding. Every command must already be supported.
func (v *View) AddKeyBinding(key terminal.Key, cmds ...Command) error {
	if len(cmds) == 0 {
		return fault.Invalid("view.AddKeyBinding", "no commands for %s", terminal.KeyName(key))
	}
	for _, c := range cmds {
		if !v.Supports(c) {
			return fault.Invalid("view.AddKeyBinding", "%s does not support command %q", v, c)
		}
	}
	if v.bindings == nil {
		v.bindings = make(map[terminal.Key][]Command)
	}
	v.bindings[key] = slices.Clone(cmds)
	return nil
}

// ReplaceKeyBinding moves the commands bound to from onto to
func (v *View) ReplaceKeyBinding(from, to terminal.Key) {
	cmds, ok := v.bindings[from]
	if !ok {
		return
	}
	delete(v.bindings, from)
	v.bindings[to] = cmds
}

// ClearKeyBinding removes the binding for key
func (v *View) ClearKeyBinding(key terminal.Key) {
	delete(v.bindings, key)
}

// ClearKeyBindings removes every binding
func (v *View) ClearKeyBindings() {
	clear(v.bindings)
}

// KeyBinding returns the commands bound to key
func (v *View) KeyBinding(key terminal.Key) []Command {
	return slices.Clone(v.bindings[key])
}

// KeysBoundTo lists keys whose binding includes cmd
func (v *View) KeysBoundTo(cmd Command) []terminal.Key {
	var keys []terminal.Key
	for k, cmds := range v.bindings {
		if slices.Contains(cmds, cmd) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// InvokeKeyBindings runs every command bound to the event's key in order.
// handled is true if any command handled it; bound is true if a binding exists.
func (v *View) InvokeKeyBindings(ev terminal.KeyEvent) (handled, bound bool) {
	cmds, ok := v.bindings[ev.Key]
	if !ok {
		return false, false
	}
	for _, c := range cmds {
		if v.InvokeCommand(c) {
			handled = true
		}
	}
	return handled, true
}
