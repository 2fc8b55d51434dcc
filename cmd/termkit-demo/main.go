// Command termkit-demo exercises the toolkit on a real terminal: focus
// traversal, mouse hit testing, a modal dialog and timer-driven redraws.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/termkit/app"
	"github.com/lixenwraith/termkit/config"
	"github.com/lixenwraith/termkit/layout"
	"github.com/lixenwraith/termkit/logging"
	"github.com/lixenwraith/termkit/terminal"
	"github.com/lixenwraith/termkit/terminal/bell"
	"github.com/lixenwraith/termkit/terminal/tcelldrv"
	"github.com/lixenwraith/termkit/view"
)

const cmdDialog view.Command = "dialog"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "termkit-demo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = pflag.StringP("config", "c", "", "config file (.toml, .yaml)")
		logFile    = pflag.String("log-file", "", "write logs to this file")
		logLevel   = pflag.String("log-level", "", "trace, debug, info, warn, error")
		noMouse    = pflag.Bool("no-mouse", false, "disable mouse reporting")
		noBell     = pflag.Bool("no-bell", false, "silence the bell")
	)
	pflag.Parse()

	if *configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		*configPath = p
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *noMouse {
		cfg.Mouse = false
	}
	if *noBell {
		cfg.Bell = false
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	bellOpts := []bell.Option{bell.WithLogger(logger)}
	if !cfg.Bell {
		bellOpts = append(bellOpts, bell.Muted())
	}

	drv := tcelldrv.New(tcelldrv.WithLogger(logger))
	a, err := app.New(drv,
		app.WithLogger(logger),
		app.WithConfig(cfg),
		app.WithBell(bell.New(bellOpts...)),
	)
	if err != nil {
		return err
	}

	return a.Run(buildMain(a, drv, logger))
}

type palette struct {
	title, status, button, focused, dialog terminal.Attribute
}

func newPalette(d terminal.Driver) palette {
	return palette{
		title:   d.MakeAttribute(terminal.ColorPair{Fg: terminal.ColorAqua, Bg: terminal.ColorDefault, Style: terminal.StyleBold}),
		status:  d.MakeAttribute(terminal.ColorPair{Fg: terminal.ColorBlack, Bg: terminal.ColorSilver}),
		button:  d.MakeAttribute(terminal.ColorPair{Fg: terminal.ColorWhite, Bg: terminal.ColorNavy}),
		focused: d.MakeAttribute(terminal.ColorPair{Fg: terminal.ColorBlack, Bg: terminal.ColorYellow, Style: terminal.StyleBold}),
		dialog:  d.MakeAttribute(terminal.ColorPair{Fg: terminal.ColorWhite, Bg: terminal.ColorMaroon}),
	}
}

func buildMain(a *app.Application, d terminal.Driver, logger *slog.Logger) *app.Toplevel {
	pal := newPalette(d)
	top := app.NewToplevel(view.WithID("main"))

	title := view.New(view.WithID("title"),
		view.WithPos(layout.Center(), layout.At(0)),
		view.WithSize(layout.Sized(12), layout.Sized(1)),
		view.WithText("termkit demo"),
		view.WithAttribute(pal.title))

	clock := view.New(view.WithID("clock"),
		view.WithPos(layout.MustAnchorEnd(8), layout.At(0)),
		view.WithSize(layout.Sized(8), layout.Sized(1)),
		view.WithText(time.Now().Format(time.TimeOnly)))

	count := 0
	counter := newButton("counter", "clicked 0 times", pal, func(b *view.View) {
		count++
		b.SetText(fmt.Sprintf("clicked %d times", count))
	})
	counter.SetX(layout.At(2))
	counter.SetY(layout.At(2))

	ring := newButton("ring", "ring the bell", pal, func(*view.View) { a.Bell() })
	ring.SetX(layout.Left(counter))
	ring.SetY(layout.AddPos(layout.Bottom(counter), layout.At(1)))

	dialog := newButton("open", "open dialog (F2)", pal, func(*view.View) { openDialog(a, pal, logger) })
	dialog.SetX(layout.Left(counter))
	dialog.SetY(layout.AddPos(layout.Bottom(ring), layout.At(1)))

	quit := newButton("quit", "quit", pal, func(*view.View) { top.RequestStop() })
	quit.SetX(layout.Left(counter))
	quit.SetY(layout.AddPos(layout.Bottom(dialog), layout.At(1)))

	statusBar := view.New(view.WithID("status"), view.WithAttribute(pal.status))
	top.StatusBar = statusBar

	for _, v := range []*view.View{title, clock, counter, ring, dialog, quit} {
		if err := top.Add(v); err != nil {
			logger.Error("build main", "view", v, "error", err)
		}
	}

	top.AddCommand(cmdDialog, func() bool {
		openDialog(a, pal, logger)
		return true
	})
	if err := top.AddKeyBinding(terminal.KeyF2, cmdDialog); err != nil {
		logger.Error("bind dialog", "error", err)
	}

	top.Ready.Subscribe(func(*app.Toplevel) {
		statusBar.SetText(statusLine(a))
		a.AddTimeout(time.Second, func() bool {
			clock.SetText(time.Now().Format(time.TimeOnly))
			statusBar.SetText(statusLine(a))
			return true
		})
	})
	return top
}

// statusLine summarizes the engine metrics
func statusLine(a *app.Application) string {
	var parts []string
	for _, line := range a.Status().Snapshot() {
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimPrefix(name, "app.")
		if slices.Contains([]string{"keys", "mouse", "redraws", "depth"}, name) {
			parts = append(parts, name+" "+value)
		}
	}
	return " tab: next  F2: dialog  ctrl+q: quit | " + strings.Join(parts, "  ")
}

// openDialog pushes a modal toplevel; Esc or its button pops it
func openDialog(a *app.Application, pal palette, logger *slog.Logger) {
	dlg := app.NewToplevel(view.WithID("dialog"),
		view.WithPos(layout.Center(), layout.Center()),
		view.WithSize(layout.Sized(34), layout.Sized(7)),
		view.WithAttribute(pal.dialog),
		view.WithBehavior(&box{}))
	dlg.Modal = true

	msg := view.New(view.WithID("message"),
		view.WithPos(layout.At(2), layout.At(2)),
		view.WithSize(layout.MustFill(2), layout.Sized(1)),
		view.WithText("The view below is blocked."),
		view.WithAttribute(pal.dialog))

	var rs *app.RunState
	closeDialog := func() {
		if rs == nil {
			return
		}
		if err := a.End(rs); err != nil {
			logger.Error("close dialog", "error", err)
		}
		rs = nil
	}
	ok := newButton("ok", "close", pal, func(*view.View) { closeDialog() })
	ok.SetX(layout.Center())
	ok.SetY(layout.At(4))

	if err := dlg.Add(msg, ok); err != nil {
		logger.Error("build dialog", "error", err)
		return
	}
	dlg.AddCommand(view.CmdCancel, func() bool {
		closeDialog()
		return true
	})
	if err := dlg.AddKeyBinding(terminal.KeyEsc, view.CmdCancel); err != nil {
		logger.Error("bind dialog", "error", err)
	}

	var err error
	if rs, err = a.Begin(dlg); err != nil {
		logger.Error("open dialog", "error", err)
	}
}

// button is a focusable label activated by Enter or a click
type button struct {
	pal      palette
	activate func(*view.View)
}

func newButton(id, label string, pal palette, activate func(*view.View)) *view.View {
	b := &button{pal: pal, activate: activate}
	v := view.New(view.WithID(id),
		view.WithSize(layout.Sized(22), layout.Sized(1)),
		view.WithText(label),
		view.Focusable(),
		view.WithBehavior(b))
	v.AddCommand(view.CmdAccept, func() bool {
		b.activate(v)
		return true
	})
	_ = v.AddKeyBinding(terminal.KeyEnter, view.CmdAccept)
	_ = v.AddKeyBinding(terminal.Key(' '), view.CmdAccept)
	return v
}

func (b *button) Draw(v *view.View, p *view.Painter) {
	attr := b.pal.button
	if v.HasFocus() {
		attr = b.pal.focused
	}
	p.SetAttribute(attr)
	p.Fill(p.Bounds(), ' ')
	p.DrawText(1, 0, v.Text())
}

func (b *button) MouseEvent(v *view.View, ev *view.MouseEvent) bool {
	if !ev.Flags.Has(terminal.Button1Clicked) {
		return false
	}
	if v.CanFocus() {
		_ = v.Focus()
	}
	v.InvokeCommand(view.CmdAccept)
	return true
}

// box draws a single-line frame around the view
type box struct{}

func (box) Draw(v *view.View, p *view.Painter) {
	p.SetAttribute(v.Attribute())
	p.Fill(p.Bounds(), ' ')

	r := p.Bounds()
	if r.Width < 2 || r.Height < 2 {
		return
	}
	right, bottom := r.Width-1, r.Height-1
	edge := func(col, row int, ch rune) {
		p.Move(col, row)
		p.AddRune(ch)
	}
	for col := 1; col < right; col++ {
		edge(col, 0, '─')
		edge(col, bottom, '─')
	}
	for row := 1; row < bottom; row++ {
		edge(0, row, '│')
		edge(right, row, '│')
	}
	edge(0, 0, '┌')
	edge(right, 0, '┐')
	edge(0, bottom, '└')
	edge(right, bottom, '┘')
	p.DrawText(2, 0, " "+v.ID()+" ")
}
