package app

import (
	"github.com/lixenwraith/termkit/terminal"
)

// driverService runs the terminal driver inside the service hub
type driverService struct {
	app *Application
}

func (s *driverService) Name() string           { return "driver" }
func (s *driverService) Dependencies() []string { return nil }

// Init acquires the terminal; resize reports go straight to the controller
func (s *driverService) Init(...any) error {
	return s.app.driver.Init(s.app.Resize)
}

// Start binds input delivery to the scheduler
func (s *driverService) Start() error {
	a := s.app
	a.driver.PrepareToRun(a.loop, terminal.Handlers{
		OnKey:     func(ev terminal.KeyEvent) { a.ProcessKey(ev) },
		OnKeyDown: func(ev terminal.KeyEvent) { a.ProcessKeyDown(ev) },
		OnKeyUp:   func(ev terminal.KeyEvent) { a.ProcessKeyUp(ev) },
		OnMouse:   func(ev terminal.MouseEvent) { a.ProcessMouse(ev) },
	})
	a.driver.SetMouse(a.mouse)
	return nil
}

func (s *driverService) Stop() error {
	s.app.driver.Shutdown()
	return nil
}
