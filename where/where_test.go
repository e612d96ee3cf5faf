package where

import (
	"os"
	"testing"

	"github.com/episodl/episodl/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Browsers()", func() {
			path := Browsers()
			So(path, ShouldStartWith, Cache())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Data() honours the override", func() {
			lo.Must0(os.Setenv(EnvDataPath, "/tmp/episodl-data"))
			defer os.Unsetenv(EnvDataPath)

			So(Data(), ShouldEqual, "/tmp/episodl-data")
			So(lo.Must(filesystem.API().IsDir("/tmp/episodl-data")), ShouldBeTrue)
		})
	})
}
