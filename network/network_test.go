package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/episodl/episodl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestForDownloads(t *testing.T) {
	Convey("ForDownloads", t, func() {
		Convey("Should share the tuned transport by default", func() {
			viper.Set(key.NetworkTLSFingerprint, false)
			client := ForDownloads()
			So(client.Transport == Client.Transport, ShouldBeTrue)
			So(client.Timeout == 0, ShouldBeTrue)
		})

		Convey("Should switch to the fingerprinted transport when enabled", func() {
			viper.Set(key.NetworkTLSFingerprint, true)
			defer viper.Set(key.NetworkTLSFingerprint, false)
			So(ForDownloads().Transport == Fingerprinted(), ShouldBeTrue)
		})
	})
}

func TestFingerprintedPlainHTTP(t *testing.T) {
	Convey("Given a plain HTTP server", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		Convey("The fingerprinted transport should use HTTP/1.1 directly", func() {
			client := &http.Client{Transport: Fingerprinted()}
			resp, err := client.Get(server.URL)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
