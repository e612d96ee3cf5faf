// Package extension keeps a local unpacked copy of the uBlock Origin browser extension in sync with its latest release.
package extension

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/episodl/episodl/archive"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/download"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrAssetNotFound is returned when the latest release has no asset for the wanted platform.
	ErrAssetNotFound = errors.New("could not find the latest uBlock Origin asset")
	// ErrEmptyDirectory is returned by Root when nothing has been unpacked.
	ErrEmptyDirectory = errors.New("uBlock Origin extension directory is empty")
)

// Status is what Ensure ended up doing.
type Status uint8

const (
	UpToDate Status = iota
	Installed
	Updated
)

func (s Status) String() string {
	return [...]string{"up-to-date", "installed", "updated"}[s]
}

// Manager owns the extension files under a data directory:
// the version marker, the unpacked directory and the transient archive.
type Manager struct {
	DataDir    string
	Keyword    string
	Feed       Feed
	Downloader download.Downloader
	// Timeout bounds a whole Ensure call; zero means no deadline.
	Timeout time.Duration
}

// New returns a manager for dataDir picking assets that contain keyword.
func New(dataDir, keyword string, feed Feed, downloader download.Downloader) *Manager {
	return &Manager{
		DataDir:    dataDir,
		Keyword:    keyword,
		Feed:       feed,
		Downloader: downloader,
	}
}

// VersionFile is the path of the version marker.
func (m *Manager) VersionFile() string { return filepath.Join(m.DataDir, constant.UBlockVersionFile) }

// Dir is the unpacked extension directory.
func (m *Manager) Dir() string { return filepath.Join(m.DataDir, constant.UBlockDir) }

// Archive is the download staging file.
func (m *Manager) Archive() string { return filepath.Join(m.DataDir, constant.UBlockArchive) }

// Ensure calls for the same data directory write the same files.
var flights singleflight.Group

// Ensure brings the unpacked extension up to the latest release. Concurrent
// callers sharing a data directory wait for a single run and share its result.
// The run outlives a cancelled caller and is bounded by Timeout alone, while
// each caller stops waiting when its own ctx is done.
func (m *Manager) Ensure(ctx context.Context) (Status, error) {
	results := flights.DoChan(filepath.Clean(m.DataDir), func() (any, error) {
		run := context.WithoutCancel(ctx)
		if m.Timeout > 0 {
			var cancel context.CancelFunc
			run, cancel = context.WithTimeout(run, m.Timeout)
			defer cancel()
		}
		return m.ensure(run)
	})

	select {
	case <-ctx.Done():
		return UpToDate, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return UpToDate, result.Err
		}
		return result.Val.(Status), nil
	}
}

// Current reads the version marker. Any read problem counts as "not installed".
func (m *Manager) Current() mo.Option[string] {
	contents, err := filesystem.API().ReadFile(m.VersionFile())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("failed to read current uBlock Origin version file: %s", err)
		}
		return mo.None[string]()
	}
	return mo.Some(strings.TrimSpace(string(contents)))
}

func (m *Manager) ensure(ctx context.Context) (Status, error) {
	current := m.Current()

	release, err := m.Feed.Latest(ctx)
	if err != nil {
		return UpToDate, err
	}

	status := Installed
	if version, ok := current.Get(); ok {
		if version == release.Tag {
			log.Trace("uBlock Origin up-to-date")
			return UpToDate, nil
		}
		log.Infof("uBlock Origin out-of-date (%s, latest %s), updating", version, release.Tag)
		status = Updated
	} else {
		log.Info("uBlock Origin not installed, installing")
	}

	if err := filesystem.RemoveFileIfExists(m.Archive()); err != nil {
		return status, fmt.Errorf("failed to remove old uBlock Origin asset file: %w", err)
	}

	asset, ok := lo.Find(release.Assets, func(a Asset) bool { return strings.Contains(a.Name, m.Keyword) })
	if !ok {
		return status, fmt.Errorf("%w for %s", ErrAssetNotFound, m.Keyword)
	}

	task := download.NewTask(m.Archive(), asset.DownloadURL).
		WithOverwrite(true).
		WithMessage("Downloading uBlock Origin")
	if err := m.Downloader.Download(ctx, task); err != nil {
		return status, fmt.Errorf("failed to download uBlock Origin: %w", err)
	}

	if err := m.install(); err != nil {
		return status, err
	}

	_ = filesystem.API().Remove(m.Archive())

	if err := filesystem.API().WriteFile(m.VersionFile(), []byte(release.Tag), 0o644); err != nil {
		return status, fmt.Errorf("failed to update uBlock Origin version file: %w", err)
	}

	return status, nil
}

// install replaces the unpacked directory with the staged archive. A failed
// extraction invalidates the previous install instead of leaving it half written.
func (m *Manager) install() (err error) {
	if err := filesystem.RemoveDirIfExists(m.Dir()); err != nil {
		return fmt.Errorf("failed to remove old uBlock Origin extension directory: %w", err)
	}

	if err := filesystem.API().MkdirAll(m.Dir(), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create uBlock Origin extension directory: %w", err)
	}

	defer onFailure(&err, func() {
		_ = filesystem.API().Remove(m.VersionFile())
		_ = filesystem.API().RemoveAll(m.Dir())
	})

	if err := archive.Unzip(m.Archive(), m.Dir()); err != nil {
		return fmt.Errorf("failed to extract uBlock Origin asset file: %w", err)
	}

	return nil
}

// onFailure runs rollback only when *err is set on return.
func onFailure(err *error, rollback func()) {
	if *err != nil {
		rollback()
	}
}

// Root locates the effective extension root. Archives often wrap their
// content in one top-level folder, in which case that folder is returned.
func (m *Manager) Root() (string, error) {
	dir := m.Dir()

	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list files in uBlock Origin extension directory: %w", err)
	}

	switch {
	case len(entries) == 0:
		return "", ErrEmptyDirectory
	case len(entries) == 1 && entries[0].IsDir():
		return filepath.Join(dir, entries[0].Name()), nil
	default:
		return dir, nil
	}
}
