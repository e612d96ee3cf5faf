package extension

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/episodl/episodl/download"
	"github.com/episodl/episodl/filesystem"
	"github.com/klauspost/compress/zip"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

const dataDir = "/data"

type fakeFeed struct {
	release *Release
	err     error
	gate    chan struct{}
}

func (f *fakeFeed) Latest(context.Context) (*Release, error) {
	if f.gate != nil {
		<-f.gate
	}
	return f.release, f.err
}

// fakeDownloader writes a prepared payload to the task path.
type fakeDownloader struct {
	payload []byte
	err     error
	calls   atomic.Int32
	tasks   []download.Task
	mu      sync.Mutex
}

func (d *fakeDownloader) Download(_ context.Context, task download.Task) error {
	d.calls.Add(1)
	d.mu.Lock()
	d.tasks = append(d.tasks, task)
	d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	return filesystem.API().WriteFile(task.Path, d.payload, 0o644)
}

func zipOf(files map[string]string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f := lo.Must(w.Create(name))
		lo.Must(f.Write([]byte(content)))
	}
	lo.Must0(w.Close())
	return buf.Bytes()
}

// lockedFs refuses to open one path for writing.
type lockedFs struct {
	afero.Fs
	path string
}

func (l lockedFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if filepath.Clean(name) == l.path && flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return l.Fs.OpenFile(name, flag, perm)
}

func latest(tag string) *Release {
	return &Release{
		Tag: tag,
		Assets: []Asset{
			{Name: "uBlock0_" + tag + ".firefox.signed.xpi", DownloadURL: "https://example.com/firefox"},
			{Name: "uBlock0_" + tag + ".chromium.zip", DownloadURL: "https://example.com/chromium"},
		},
	}
}

func read(path string) string {
	return string(lo.Must(filesystem.API().ReadFile(path)))
}

func exists(path string) bool {
	return lo.Must(filesystem.API().Exists(path))
}

func TestEnsure(t *testing.T) {
	Convey("Given an extension manager on an in-memory data directory", t, func() {
		filesystem.SetMemMapFs()
		lo.Must0(filesystem.API().MkdirAll(dataDir, 0o755))

		feed := &fakeFeed{release: latest("1.60.0")}
		downloader := &fakeDownloader{payload: zipOf(map[string]string{
			"uBlock0.chromium/manifest.json": "{}",
			"uBlock0.chromium/js/start.js":   "",
		})}
		manager := New(dataDir, "chromium", feed, downloader)
		ctx := context.Background()

		Convey("When the marker matches the latest tag", func() {
			lo.Must0(filesystem.API().WriteFile(manager.VersionFile(), []byte("1.60.0\n"), 0o644))

			status, err := manager.Ensure(ctx)

			Convey("Nothing should be downloaded", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, UpToDate)
				So(downloader.calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("When no marker exists", func() {
			status, err := manager.Ensure(ctx)

			Convey("The chromium asset should be installed once", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, Installed)
				So(downloader.calls.Load(), ShouldEqual, 1)
				So(downloader.tasks[0].URL, ShouldEqual, "https://example.com/chromium")
				So(downloader.tasks[0].Overwrite, ShouldBeTrue)
				So(downloader.tasks[0].Message.IsPresent(), ShouldBeTrue)
			})

			Convey("The marker should hold the new tag and the archive should be gone", func() {
				So(read(manager.VersionFile()), ShouldEqual, "1.60.0")
				So(exists(manager.Archive()), ShouldBeFalse)
			})

			Convey("Root should resolve to the wrapped folder", func() {
				root, err := manager.Root()
				So(err, ShouldBeNil)
				So(root, ShouldEqual, filepath.Join(manager.Dir(), "uBlock0.chromium"))
				So(exists(filepath.Join(root, "manifest.json")), ShouldBeTrue)
			})
		})

		Convey("When the marker is stale", func() {
			lo.Must0(filesystem.API().WriteFile(manager.VersionFile(), []byte("1.59.0"), 0o644))
			lo.Must0(filesystem.API().MkdirAll(manager.Dir(), 0o755))
			lo.Must0(filesystem.API().WriteFile(filepath.Join(manager.Dir(), "stale.js"), []byte("old"), 0o644))
			lo.Must0(filesystem.API().WriteFile(manager.Archive(), []byte("leftover"), 0o644))

			status, err := manager.Ensure(ctx)

			Convey("The directory should be replaced", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, Updated)
				So(downloader.calls.Load(), ShouldEqual, 1)
				So(exists(filepath.Join(manager.Dir(), "stale.js")), ShouldBeFalse)
				So(read(manager.VersionFile()), ShouldEqual, "1.60.0")
			})
		})

		Convey("When the release has no matching asset", func() {
			manager.Keyword = "safari"
			_, err := manager.Ensure(ctx)

			Convey("It should fail without downloading", func() {
				So(errors.Is(err, ErrAssetNotFound), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "safari")
				So(downloader.calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("When the archive is corrupt", func() {
			lo.Must0(filesystem.API().WriteFile(manager.VersionFile(), []byte("1.59.0"), 0o644))
			downloader.payload = []byte("not a zip")

			_, err := manager.Ensure(ctx)

			Convey("The previous install should be invalidated", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "failed to extract uBlock Origin asset file")
				So(exists(manager.VersionFile()), ShouldBeFalse)
				So(exists(manager.Dir()), ShouldBeFalse)
			})
		})

		Convey("When the feed fails", func() {
			feed.release, feed.err = nil, ErrUnexpectedResponse
			lo.Must0(filesystem.API().WriteFile(manager.VersionFile(), []byte("1.59.0"), 0o644))

			_, err := manager.Ensure(ctx)

			Convey("The error should propagate and the marker be kept", func() {
				So(errors.Is(err, ErrUnexpectedResponse), ShouldBeTrue)
				So(read(manager.VersionFile()), ShouldEqual, "1.59.0")
			})
		})

		Convey("When the asset download fails", func() {
			lo.Must0(filesystem.API().WriteFile(manager.VersionFile(), []byte("1.59.0"), 0o644))
			downloader.err = errors.New("connection reset")

			_, err := manager.Ensure(ctx)

			Convey("The error should propagate and the marker be kept", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldStartWith, "failed to download uBlock Origin")
				So(err.Error(), ShouldContainSubstring, "connection reset")
				So(read(manager.VersionFile()), ShouldEqual, "1.59.0")
				So(downloader.calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the marker cannot be written", func() {
			lo.Must0(filesystem.API().WriteFile(manager.VersionFile(), []byte("1.59.0"), 0o644))
			filesystem.Set(lockedFs{Fs: filesystem.API().Fs, path: manager.VersionFile()})

			_, err := manager.Ensure(ctx)

			Convey("Ensure should fail and leave the old marker", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldStartWith, "failed to update uBlock Origin version file")
				So(read(manager.VersionFile()), ShouldEqual, "1.59.0")
				So(exists(filepath.Join(manager.Dir(), "uBlock0.chromium", "manifest.json")), ShouldBeTrue)
			})
		})

		Convey("When the first of two callers gives up", func() {
			feed.gate = make(chan struct{})
			impatient, cancel := context.WithCancel(ctx)

			first := make(chan error, 1)
			go func() {
				_, err := manager.Ensure(impatient)
				first <- err
			}()
			second := make(chan error, 1)
			go func() {
				_, err := manager.Ensure(ctx)
				second <- err
			}()

			time.Sleep(20 * time.Millisecond)
			cancel()
			firstErr := <-first
			close(feed.gate)
			secondErr := <-second

			Convey("Only the cancelled caller should fail", func() {
				So(errors.Is(firstErr, context.Canceled), ShouldBeTrue)
				So(secondErr, ShouldBeNil)
				So(read(manager.VersionFile()), ShouldEqual, "1.60.0")
				So(downloader.calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When several callers race on the same directory", func() {
			feed.gate = make(chan struct{})
			var wg sync.WaitGroup
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = manager.Ensure(ctx)
				}()
			}
			time.Sleep(50 * time.Millisecond)
			close(feed.gate)
			wg.Wait()

			Convey("Only one download should happen", func() {
				So(downloader.calls.Load(), ShouldEqual, 1)
			})
		})
	})
}

func TestRoot(t *testing.T) {
	Convey("Given an extension directory", t, func() {
		filesystem.SetMemMapFs()
		manager := New(dataDir, "chromium", nil, nil)
		lo.Must0(filesystem.API().MkdirAll(manager.Dir(), 0o755))

		Convey("An empty directory should fail", func() {
			_, err := manager.Root()
			So(errors.Is(err, ErrEmptyDirectory), ShouldBeTrue)
		})

		Convey("A single subdirectory should be the root", func() {
			lo.Must0(filesystem.API().MkdirAll(filepath.Join(manager.Dir(), "inner"), 0o755))
			root, err := manager.Root()
			So(err, ShouldBeNil)
			So(root, ShouldEqual, filepath.Join(manager.Dir(), "inner"))
		})

		Convey("Two entries should keep the directory itself", func() {
			lo.Must0(filesystem.API().WriteFile(filepath.Join(manager.Dir(), "manifest.json"), []byte("{}"), 0o644))
			lo.Must0(filesystem.API().MkdirAll(filepath.Join(manager.Dir(), "js"), 0o755))
			root, err := manager.Root()
			So(err, ShouldBeNil)
			So(root, ShouldEqual, manager.Dir())
		})

		Convey("A missing directory should fail", func() {
			lo.Must0(filesystem.API().RemoveAll(manager.Dir()))
			_, err := manager.Root()
			So(err, ShouldNotBeNil)
		})
	})
}
