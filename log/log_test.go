package log

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestLog(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		var captured bytes.Buffer
		stderr = &captured

		Reset(func() {
			viper.Reset()
			enabled = false
			logger.SetOutput(io.Discard)
		})

		Convey("With logging off, warnings should still reach stderr", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)

			Info("hidden")
			Warnf("stealth patch skipped: %s", "timeout")
			So(captured.String(), ShouldEqual, "warning: stealth patch skipped: timeout\n")
		})

		Convey("With logging on, entries should go to today's file", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			So(Setup(), ShouldBeNil)

			Debugf("provisioned chrome %d", 131)
			Warn("slow feed")
			Trace("dropped")

			path := filepath.Join(where.Logs(), time.Now().Format(time.DateOnly)+".log")
			contents, err := filesystem.API().ReadFile(path)
			So(err, ShouldBeNil)
			So(string(contents), ShouldContainSubstring, "provisioned chrome 131")
			So(string(contents), ShouldContainSubstring, "slow feed")
			So(string(contents), ShouldNotContainSubstring, "dropped")
			So(captured.Len(), ShouldEqual, 0)
		})

		Convey("EnableDebug should write to stderr", func() {
			EnableDebug()
			WithField("attempt", 2).Trace("connecting")
			So(captured.String(), ShouldContainSubstring, "connecting")
			So(captured.String(), ShouldContainSubstring, "attempt=2")
		})
	})
}
