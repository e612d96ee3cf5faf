package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/episodl/episodl/archive"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/download"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/util"
	"github.com/metafates/gache"
	"github.com/samber/lo"
)

// ErrUnsupportedPlatform is returned when no build is published for the running OS and architecture.
var ErrUnsupportedPlatform = errors.New("no Chrome for Testing build for this platform")

// Platform resolves browser and driver binaries for a pinned major version.
type Platform interface {
	BrowserPath(ctx context.Context, major int) (string, error)
	DriverPath(ctx context.Context, major int) (string, error)
}

const (
	chromeBundle = "chrome"
	driverBundle = "chromedriver"
)

// ChromeForTesting fetches pinned builds from the Chrome for Testing distribution
// into a cache directory. A chromedriver already on PATH is reused when its
// major version matches.
type ChromeForTesting struct {
	Dir        string
	FeedURL    string
	Client     *http.Client
	Downloader download.Downloader
	GOOS       string
	GOARCH     string

	lookPath      func(string) (string, error)
	driverVersion func(ctx context.Context, path string) (string, error)

	mu     sync.Mutex
	builds map[int]*milestone
	// resolved persists feed answers so cached builds start without network access.
	resolved *gache.Cache[map[int]*milestone]
}

// NewChromeForTesting returns a platform caching builds under dir.
func NewChromeForTesting(dir string, client *http.Client, downloader download.Downloader) *ChromeForTesting {
	return &ChromeForTesting{
		Dir:           dir,
		FeedURL:       constant.ChromeForTestingURL,
		Client:        client,
		Downloader:    downloader,
		GOOS:          runtime.GOOS,
		GOARCH:        runtime.GOARCH,
		lookPath:      exec.LookPath,
		driverVersion: commandVersion,
		builds:        make(map[int]*milestone),
		resolved: gache.New[map[int]*milestone](&gache.Options{
			Path:       filepath.Join(dir, "milestones.json"),
			Lifetime:   time.Hour * 24 * 2,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

type artifact struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type milestone struct {
	Version   string                `json:"version"`
	Downloads map[string][]artifact `json:"downloads"`
}

func (c *ChromeForTesting) BrowserPath(ctx context.Context, major int) (string, error) {
	return c.fetch(ctx, major, chromeBundle)
}

func (c *ChromeForTesting) DriverPath(ctx context.Context, major int) (string, error) {
	if path, err := c.lookPath(driverBundle); err == nil {
		version, err := c.driverVersion(ctx, path)
		if err == nil && majorOf(version) == strconv.Itoa(major) {
			log.Tracef("reusing %s from PATH (%s)", path, version)
			return path, nil
		}
		log.Tracef("ignoring %s from PATH: version %q does not match %d", path, version, major)
	}

	return c.fetch(ctx, major, driverBundle)
}

// fetch returns the cached binary of bundle, downloading and extracting it first if needed.
func (c *ChromeForTesting) fetch(ctx context.Context, major int, bundle string) (string, error) {
	platform, err := c.platform()
	if err != nil {
		return "", err
	}

	build, err := c.milestone(ctx, major)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(c.Dir, build.Version)
	binary := filepath.Join(dir, bundle+"-"+platform, c.executable(bundle))

	exists, err := filesystem.API().Exists(binary)
	if err != nil {
		return "", err
	}
	if exists {
		return binary, nil
	}

	entry, ok := lo.Find(build.Downloads[bundle], func(a artifact) bool { return a.Platform == platform })
	if !ok {
		return "", fmt.Errorf("%w: %s %s for %s", ErrUnsupportedPlatform, bundle, build.Version, platform)
	}

	staged := filepath.Join(dir, bundle+"-"+platform+".zip")
	task := download.NewTask(staged, entry.URL).
		WithOverwrite(true).
		WithMessage(fmt.Sprintf("Downloading %s %s", bundle, build.Version))
	if err := c.Downloader.Download(ctx, task); err != nil {
		return "", err
	}
	defer func() { _ = filesystem.RemoveFileIfExists(staged) }()

	if err := archive.Unzip(staged, dir); err != nil {
		_ = filesystem.RemoveDirIfExists(filepath.Join(dir, bundle+"-"+platform))
		return "", fmt.Errorf("extract %s: %w", bundle, err)
	}

	return binary, nil
}

// milestone resolves the build published for major. Answers are kept in memory
// and on disk, so the feed is queried at most once per lifetime of the disk cache.
func (c *ChromeForTesting) milestone(ctx context.Context, major int) (*milestone, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if build, ok := c.builds[major]; ok {
		return build, nil
	}

	persisted := c.persisted()
	if build, ok := persisted[major]; ok && build != nil && build.Version != "" {
		c.builds[major] = build
		return build, nil
	}

	build, err := c.query(ctx, major)
	if err != nil {
		return nil, err
	}

	c.builds[major] = build
	persisted[major] = build
	if err := c.resolved.Set(persisted); err != nil {
		log.Warnf("failed to persist Chrome for Testing milestone: %s", err)
	}
	return build, nil
}

// persisted returns the unexpired milestones on disk, or an empty map.
func (c *ChromeForTesting) persisted() map[int]*milestone {
	cached, expired, err := c.resolved.Get()
	if err != nil {
		log.Warnf("failed to read Chrome for Testing milestones: %s", err)
	}
	if err != nil || expired || cached == nil {
		return make(map[int]*milestone)
	}
	return cached
}

func (c *ChromeForTesting) query(ctx context.Context, major int) (*milestone, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query Chrome for Testing feed: %w", err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query Chrome for Testing feed: unexpected status %s", resp.Status)
	}

	var feed struct {
		Milestones map[string]*milestone `json:"milestones"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode Chrome for Testing feed: %w", err)
	}

	build, ok := feed.Milestones[strconv.Itoa(major)]
	if !ok || build == nil || build.Version == "" {
		return nil, fmt.Errorf("milestone %d is not published", major)
	}
	return build, nil
}

// platform maps the target OS and architecture to a release platform name.
func (c *ChromeForTesting) platform() (string, error) {
	switch c.GOOS + "/" + c.GOARCH {
	case constant.Linux + "/amd64":
		return "linux64", nil
	case constant.Darwin + "/arm64":
		return "mac-arm64", nil
	case constant.Darwin + "/amd64":
		return "mac-x64", nil
	case constant.Windows + "/amd64":
		return "win64", nil
	case constant.Windows + "/386":
		return "win32", nil
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, c.GOOS, c.GOARCH)
	}
}

// executable is the binary path of bundle relative to its extracted folder.
func (c *ChromeForTesting) executable(bundle string) string {
	switch {
	case c.GOOS == constant.Windows:
		return bundle + ".exe"
	case c.GOOS == constant.Darwin && bundle == chromeBundle:
		return filepath.Join("Google Chrome for Testing.app", "Contents", "MacOS", "Google Chrome for Testing")
	default:
		return bundle
	}
}

var versionPattern = regexp.MustCompile(`(?P<version>\d+(\.\d+)+)`)

// commandVersion runs "<path> --version", e.g. "ChromeDriver 128.0.6613.137 (...)".
func commandVersion(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", err
	}

	version, ok := util.ReGroups(versionPattern, string(out))["version"]
	if !ok {
		return "", fmt.Errorf("unexpected version output %q", strings.TrimSpace(string(out)))
	}
	return version, nil
}

func majorOf(version string) string {
	major, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	return major
}
