package browser

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-rod/rod/lib/proto"
	. "github.com/smartystreets/goconvey/convey"
)

type call struct {
	method string
	params any
}

type fakeDevTools struct {
	calls []call
	err   error
}

func (f *fakeDevTools) Execute(_ context.Context, method string, params any) error {
	f.calls = append(f.calls, call{method, params})
	return f.err
}

func TestPatch(t *testing.T) {
	Convey("Given a DevTools channel", t, func() {
		dt := &fakeDevTools{}
		ctx := context.Background()

		Convey("Patch should remove the driver script then install the proxy", func() {
			So(Patch(ctx, dt), ShouldBeNil)
			So(dt.calls, ShouldHaveLength, 2)

			So(dt.calls[0].method, ShouldEqual, "Page.removeScriptToEvaluateOnNewDocument")
			remove := dt.calls[0].params.(proto.PageRemoveScriptToEvaluateOnNewDocument)
			So(string(remove.Identifier), ShouldEqual, "1")

			So(dt.calls[1].method, ShouldEqual, "Page.addScriptToEvaluateOnNewDocument")
			add := dt.calls[1].params.(proto.PageAddScriptToEvaluateOnNewDocument)
			So(add.Source, ShouldContainSubstring, `key === "webdriver"`)
			So(add.Source, ShouldContainSubstring, "new Proxy(navigator")
		})

		Convey("Patch should stop at the first failure", func() {
			dt.err = errors.New("closed")
			err := Patch(ctx, dt)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "remove driver script")
			So(dt.calls, ShouldHaveLength, 1)
		})
	})
}

func TestCDP(t *testing.T) {
	Convey("Given a driver endpoint", t, func() {
		var (
			path string
			body map[string]any
		)
		status := http.StatusOK
		reply := `{"value": {}}`

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
		defer server.Close()

		cdp := NewCDP(server.URL+"/", "abc", server.Client())
		ctx := context.Background()

		Convey("Execute should post the command to the session endpoint", func() {
			err := cdp.Execute(ctx, "Page.enable", map[string]any{"x": 1})
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/session/abc/goog/cdp/execute")
			So(body["cmd"], ShouldEqual, "Page.enable")
			So(body["params"], ShouldResemble, map[string]any{"x": 1.0})
		})

		Convey("Execute should surface the driver's error message", func() {
			status = http.StatusInternalServerError
			reply = `{"value": {"error": "unknown error", "message": "no such target"}}`

			err := cdp.Execute(ctx, "Page.enable", nil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "no such target")
		})

		Convey("Execute should fall back to the status for opaque failures", func() {
			status = http.StatusBadGateway
			reply = `oops`

			err := cdp.Execute(ctx, "Page.enable", nil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "502")
		})
	})
}
