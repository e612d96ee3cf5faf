package browser

import (
	"errors"
	"os"
	"os/exec"

	"github.com/samber/mo"
	"github.com/tebeka/selenium"
)

// Session is a ready browser. The caller owns it and must Close it.
type Session struct {
	WebDriver selenium.WebDriver
	DevTools  DevTools
	Driver    *exec.Cmd
}

// Close ends the WebDriver session and stops the driver process.
func (s *Session) Close() error {
	var quit error
	if s.WebDriver != nil {
		quit = s.WebDriver.Quit()
	}
	return errors.Join(quit, kill(s.Driver))
}

// UserAgent reports navigator.userAgent as seen by pages.
func (s *Session) UserAgent() mo.Option[string] {
	value, err := s.WebDriver.ExecuteScript("return navigator.userAgent;", nil)
	if err != nil {
		return mo.None[string]()
	}

	agent, ok := value.(string)
	if !ok {
		return mo.None[string]()
	}
	return mo.Some(agent)
}

// kill stops a spawned driver and reaps it. Unstarted commands are ignored.
func kill(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	_ = cmd.Wait()
	return nil
}
