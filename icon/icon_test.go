package icon

import (
	"testing"

	"github.com/episodl/episodl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given the icon registry", t, func() {
		Reset(viper.Reset)

		Convey("Every icon should render in every variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				for i := range icons {
					So(Get(i), ShouldNotBeEmpty)
				}
			}
		})

		Convey("An unknown variant should fall back to plain", func() {
			viper.Set(key.IconsVariant, "fancy")
			So(Get(Fail), ShouldEqual, "x")
			So(Download.String(), ShouldEqual, "↓")
		})

		Convey("An unregistered icon should render empty", func() {
			So(Icon(0).String(), ShouldBeEmpty)
		})
	})
}
