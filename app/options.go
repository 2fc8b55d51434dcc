package app

import (
	"log/slog"

	"github.com/lixenwraith/termkit/config"
	"github.com/lixenwraith/termkit/logging"
	"github.com/lixenwraith/termkit/mainloop"
	"github.com/lixenwraith/termkit/status"
	"github.com/lixenwraith/termkit/terminal"
	"github.com/lixenwraith/termkit/view"
)

// Option configures an Application
type Option func(*Application) error

// WithLogger sets the logger; nil discards
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) error {
		a.logger = logging.OrDiscard(logger)
		return nil
	}
}

// WithStatus shares a metrics registry with the caller
func WithStatus(reg *status.Registry) Option {
	return func(a *Application) error {
		if reg != nil {
			a.reg = reg
		}
		return nil
	}
}

// WithClock replaces the scheduler clock
func WithClock(c mainloop.Clock) Option {
	return func(a *Application) error {
		a.clock = c
		return nil
	}
}

// WithBell sets the audible bell; a bell that is also a service.Service is
// started and stopped with the driver
func WithBell(b Bell) Option {
	return func(a *Application) error {
		a.bell = b
		return nil
	}
}

// WithConfig applies the keymap and mouse setting
func WithConfig(cfg config.Config) Option {
	return func(a *Application) error {
		keys, err := cfg.Keys.Resolve()
		if err != nil {
			return err
		}
		a.keymap = make(map[view.Command]terminal.Key, len(keys))
		for name, key := range keys {
			a.keymap[view.Command(name)] = key
		}
		a.mouse = cfg.Mouse
		return nil
	}
}
