package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"sync/atomic"
	"testing"

	"github.com/episodl/episodl/download"
	"github.com/episodl/episodl/filesystem"
	"github.com/klauspost/compress/zip"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

const pinned = "128.0.6613.137"

func bundleZip(name string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f := lo.Must(w.Create(name))
	lo.Must(f.Write([]byte("#!/bin/sh\n")))
	lo.Must0(w.Close())
	return buf.Bytes()
}

func TestChromeForTesting(t *testing.T) {
	Convey("Given a Chrome for Testing mirror", t, func() {
		filesystem.SetMemMapFs()

		var feedHits, zipHits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/feed.json":
				feedHits.Add(1)
				base := "http://" + r.Host
				_, _ = fmt.Fprintf(w, `{"milestones": {"128": {"milestone": "128", "version": %q, "downloads": {
					"chrome": [{"platform": "linux64", "url": "%s/chrome.zip"}],
					"chromedriver": [{"platform": "linux64", "url": "%s/chromedriver.zip"}]
				}}}}`, pinned, base, base)
			case "/chrome.zip":
				zipHits.Add(1)
				_, _ = w.Write(bundleZip("chrome-linux64/chrome"))
			case "/chromedriver.zip":
				zipHits.Add(1)
				_, _ = w.Write(bundleZip("chromedriver-linux64/chromedriver"))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		cft := NewChromeForTesting("/cache", server.Client(), download.NewHTTP(server.Client()))
		cft.FeedURL = server.URL + "/feed.json"
		cft.GOOS, cft.GOARCH = "linux", "amd64"
		cft.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

		ctx := context.Background()

		Convey("BrowserPath should download and unpack the pinned build", func() {
			path, err := cft.BrowserPath(ctx, 128)
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/cache/"+pinned+"/chrome-linux64/chrome")
			So(lo.Must(filesystem.API().Exists(path)), ShouldBeTrue)
			So(lo.Must(filesystem.API().Exists("/cache/"+pinned+"/chrome-linux64.zip")), ShouldBeFalse)

			Convey("A second call should reuse the cache and the resolved milestone", func() {
				again, err := cft.BrowserPath(ctx, 128)
				So(err, ShouldBeNil)
				So(again, ShouldEqual, path)
				So(feedHits.Load(), ShouldEqual, 1)
				So(zipHits.Load(), ShouldEqual, 1)
			})
		})

		Convey("A fresh instance should reuse the persisted milestone", func() {
			_, err := cft.DriverPath(ctx, 128)
			So(err, ShouldBeNil)

			fresh := NewChromeForTesting("/cache", server.Client(), download.NewHTTP(server.Client()))
			fresh.FeedURL = cft.FeedURL
			fresh.GOOS, fresh.GOARCH = "linux", "amd64"
			fresh.lookPath = cft.lookPath

			path, err := fresh.DriverPath(ctx, 128)
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/cache/"+pinned+"/chromedriver-linux64/chromedriver")
			So(feedHits.Load(), ShouldEqual, 1)
			So(zipHits.Load(), ShouldEqual, 1)
		})

		Convey("DriverPath should fetch the driver when none is on PATH", func() {
			path, err := cft.DriverPath(ctx, 128)
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/cache/"+pinned+"/chromedriver-linux64/chromedriver")
		})

		Convey("DriverPath should reuse a matching driver from PATH", func() {
			cft.lookPath = func(string) (string, error) { return "/usr/bin/chromedriver", nil }
			cft.driverVersion = func(context.Context, string) (string, error) { return "128.0.6613.84", nil }

			path, err := cft.DriverPath(ctx, 128)
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/usr/bin/chromedriver")
			So(feedHits.Load(), ShouldEqual, 0)
		})

		Convey("DriverPath should ignore a mismatched driver from PATH", func() {
			cft.lookPath = func(string) (string, error) { return "/usr/bin/chromedriver", nil }
			cft.driverVersion = func(context.Context, string) (string, error) { return "127.0.6533.88", nil }

			path, err := cft.DriverPath(ctx, 128)
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/cache/"+pinned+"/chromedriver-linux64/chromedriver")
		})

		Convey("An unpublished milestone should fail", func() {
			_, err := cft.BrowserPath(ctx, 42)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "milestone 42")
		})

		Convey("A platform without builds should fail", func() {
			cft.GOOS, cft.GOARCH = "plan9", "amd64"
			_, err := cft.BrowserPath(ctx, 128)
			So(errors.Is(err, ErrUnsupportedPlatform), ShouldBeTrue)
		})

		Convey("A platform missing from the feed should fail", func() {
			cft.GOOS, cft.GOARCH = "darwin", "arm64"
			_, err := cft.BrowserPath(ctx, 128)
			So(errors.Is(err, ErrUnsupportedPlatform), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "mac-arm64")
		})
	})
}

func TestExecutable(t *testing.T) {
	Convey("Executables should follow each platform's layout", t, func() {
		cft := &ChromeForTesting{GOOS: "windows"}
		So(cft.executable(driverBundle), ShouldEqual, "chromedriver.exe")

		cft.GOOS = "darwin"
		So(cft.executable(chromeBundle), ShouldEndWith, "Google Chrome for Testing")
		So(cft.executable(driverBundle), ShouldEqual, "chromedriver")
	})
}

func TestMajorOf(t *testing.T) {
	Convey("majorOf should keep the leading component", t, func() {
		So(majorOf("128.0.6613.137"), ShouldEqual, "128")
		So(majorOf(" 127 "), ShouldEqual, "127")
	})
}
