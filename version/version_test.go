package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/episodl/episodl/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"1.2.3", "1.2.3", 0},
			{"v1.2.4", "1.2.3", 1},
			{"1.2", "1.2.0", 0},
			{"1.10.0", "1.9.9", 1},
			{"0.3.0", "1.0.0", -1},
			{"1.0.0-rc.1", "1.0.0", 0},
		}
		for _, c := range cases {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)

		_, err = Compare("", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release feed", t, func() {
		filesystem.SetMemMapFs()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte(`{"tag_name": "v0.4.1"}`))
		}))
		defer server.Close()

		previous := releaseURL
		releaseURL = server.URL
		defer func() { releaseURL = previous }()

		Convey("Latest should strip the prefix and cache the answer", func() {
			latest, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(latest, ShouldEqual, "0.4.1")

			again, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(again, ShouldEqual, "0.4.1")
			So(hits.Load(), ShouldEqual, 1)
		})
	})
}
