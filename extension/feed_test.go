package extension

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRelease(t *testing.T) {
	Convey("ParseRelease", t, func() {
		Convey("Should decode a well formed release", func() {
			release, err := ParseRelease([]byte(`{
				"tag_name": "1.60.0",
				"assets": [{"name": "uBlock0_1.60.0.chromium.zip", "browser_download_url": "https://example.com/a.zip"}]
			}`))
			So(err, ShouldBeNil)
			So(release.Tag, ShouldEqual, "1.60.0")
			So(release.Assets, ShouldHaveLength, 1)
			So(release.Assets[0].DownloadURL, ShouldEqual, "https://example.com/a.zip")
		})

		Convey("Should accept an empty asset list", func() {
			release, err := ParseRelease([]byte(`{"tag_name": "1.60.0", "assets": []}`))
			So(err, ShouldBeNil)
			So(release.Assets, ShouldBeEmpty)
		})

		Convey("Should reject malformed shapes", func() {
			for _, body := range []string{
				`not json`,
				`{}`,
				`{"assets": []}`,
				`{"tag_name": "1.60.0"}`,
				`{"tag_name": 1, "assets": []}`,
				`{"tag_name": "1.60.0", "assets": {}}`,
				`{"tag_name": "1.60.0", "assets": [{"name": "a"}]}`,
				`{"tag_name": "1.60.0", "assets": [{"browser_download_url": "u"}]}`,
				`{"tag_name": "1.60.0", "assets": [{"name": 3, "browser_download_url": "u"}]}`,
			} {
				_, err := ParseRelease([]byte(body))
				So(errors.Is(err, ErrUnexpectedResponse), ShouldBeTrue)
			}
		})
	})
}

func TestGitHubFeed(t *testing.T) {
	Convey("Given a release endpoint", t, func() {
		status := http.StatusOK
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"tag_name": "1.61.2", "assets": []}`))
		}))
		defer server.Close()

		feed := &GitHubFeed{URL: server.URL, Client: server.Client()}

		Convey("Latest should return the parsed release", func() {
			release, err := feed.Latest(context.Background())
			So(err, ShouldBeNil)
			So(release.Tag, ShouldEqual, "1.61.2")
		})

		Convey("Latest should fail on a non-200 status", func() {
			status = http.StatusForbidden
			_, err := feed.Latest(context.Background())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "403")
		})
	})
}
