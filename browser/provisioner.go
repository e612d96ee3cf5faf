package browser

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/episodl/episodl/extension"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/util"
	"github.com/samber/mo"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// ErrNoFreePort is returned when the OS hands out no loopback port for the driver.
var ErrNoFreePort = errors.New("no free port found for ChromeDriver")

// Provisioner stands up patched browser sessions.
type Provisioner struct {
	Config   Config
	Platform Platform
	// Extension is loaded into the browser when set. Its failures only warn.
	Extension *extension.Manager
	// Client carries DevTools commands to the driver.
	Client *http.Client

	mu    sync.Mutex
	state State

	start    func(path string, port int, headless bool) (*exec.Cmd, error)
	connect  func(caps selenium.Capabilities, url string) (selenium.WebDriver, error)
	sleep    func(ctx context.Context, d time.Duration) error
	devtools func(url string, wd selenium.WebDriver) DevTools
}

// NewProvisioner returns a provisioner resolving binaries through platform.
func NewProvisioner(config Config, platform Platform, ext *extension.Manager, client *http.Client) *Provisioner {
	return &Provisioner{
		Config:    config,
		Platform:  platform,
		Extension: ext,
		Client:    client,
		start:     startDriver,
		connect:   selenium.NewRemote,
		sleep:     sleep,
		devtools: func(url string, wd selenium.WebDriver) DevTools {
			return NewCDP(url, wd.SessionID(), client)
		},
	}
}

// State is the stage the last Provision call reached.
func (p *Provisioner) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Provisioner) enter(state State) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	log.Tracef("browser: %s", state)
}

// Provision locates or fetches the pinned browser and driver, launches the
// driver, connects to it and patches the resulting session.
func (p *Provisioner) Provision(ctx context.Context) (session *Session, err error) {
	p.enter(Idle)
	defer func() {
		if err != nil {
			p.enter(Failed)
		}
	}()

	p.enter(LocatingOrDownloading)
	driverPath, browserPath, err := p.binaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find or fetch ChromeDriver: %w", err)
	}

	port, err := FreePort()
	if err != nil {
		return nil, err
	}

	p.enter(Launching)
	log.Tracef("starting ChromeDriver on port %d", port)
	driver, err := p.start(driverPath, port, p.Config.Headless)
	if err != nil {
		return nil, fmt.Errorf("failed to start ChromeDriver: %w", err)
	}
	defer func() {
		if err != nil {
			_ = kill(driver)
		}
	}()

	caps := Capabilities(browserPath, p.Config.Headless, p.extensionRoot(ctx))

	p.enter(AwaitingChannel)
	url := fmt.Sprintf("http://localhost:%d", port)
	wd, err := p.await(ctx, caps, url)
	if err != nil {
		return nil, err
	}

	if err := wd.SetImplicitWaitTimeout(0); err != nil {
		log.Warnf("failed to disable implicit waits: %s", err)
	}

	devtools := p.devtools(url, wd)
	if err := Patch(ctx, devtools); err != nil {
		if p.Config.StealthStrict {
			_ = wd.Quit()
			return nil, fmt.Errorf("failed to patch session: %w", err)
		}
		log.Warnf("failed to patch session: %s", err)
	}

	p.enter(Ready)
	return &Session{WebDriver: wd, DevTools: devtools, Driver: driver}, nil
}

func (p *Provisioner) binaries(ctx context.Context) (driver, browser string, err error) {
	driver, err = p.Platform.DriverPath(ctx, p.Config.MajorVersion)
	if err != nil {
		return "", "", err
	}

	browser, err = p.Platform.BrowserPath(ctx, p.Config.MajorVersion)
	if err != nil {
		return "", "", err
	}

	return driver, browser, nil
}

// extensionRoot refreshes the ad-block extension and returns its root, if usable.
func (p *Provisioner) extensionRoot(ctx context.Context) mo.Option[string] {
	if p.Extension == nil {
		return mo.None[string]()
	}

	if _, err := p.Extension.Ensure(ctx); err != nil {
		log.Warnf("Failed to prepare uBlock Origin: %s", err)
	}

	root, err := p.Extension.Root()
	if err != nil {
		log.Warnf("Failed to add uBlock Origin as extension: %s", err)
		return mo.None[string]()
	}

	return mo.Some(root)
}

// await retries the WebDriver handshake until the driver accepts it or the attempts run out.
func (p *Provisioner) await(ctx context.Context, caps selenium.Capabilities, url string) (selenium.WebDriver, error) {
	attempts := max(p.Config.ChannelAttempts, 1)

	for attempt := 1; ; attempt++ {
		wd, err := p.connect(caps, url)
		if err == nil {
			return wd, nil
		}

		if attempt == attempts {
			return nil, fmt.Errorf("could not connect to ChromeDriver: %w", err)
		}

		if err := p.sleep(ctx, p.Config.ChannelBackoff); err != nil {
			return nil, fmt.Errorf("could not connect to ChromeDriver: %w", err)
		}
	}
}

// Capabilities builds the Chrome options for a session.
func Capabilities(browserPath string, headless bool, extensionRoot mo.Option[string]) selenium.Capabilities {
	args := []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-blink-features=AutomationControlled",
		"window-size=1920,1080",
		"disable-infobars",
	}
	var exclude []string

	if headless {
		args = append(args, "--headless=old", "--log-level=3")
		exclude = append(exclude, "enable-logging")
	}
	exclude = append(exclude, "enable-automation")

	if root, ok := extensionRoot.Get(); ok {
		args = append(args, "--load-extension="+root)
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Path:            browserPath,
		Args:            args,
		ExcludeSwitches: exclude,
		W3C:             true,
	})
	return caps
}

// FreePort asks the OS for an unused loopback TCP port.
func FreePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoFreePort, err)
	}
	defer util.Ignore(listener.Close)

	return listener.Addr().(*net.TCPAddr).Port, nil
}

func startDriver(path string, port int, headless bool) (*exec.Cmd, error) {
	cmd := exec.Command(path, fmt.Sprintf("--port=%d", port))
	if !headless {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
