package util

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should keep dotted episode names", func() {
			So(SanitizeFilename("Show.S01E01"), ShouldEqual, "Show.S01E01")
		})

		Convey("Should replace whitespace and reserved characters once", func() {
			So(SanitizeFilename("Episode 1: The  Return?"), ShouldEqual, "Episode_1_The_Return")
		})

		Convey("Should fall back when nothing usable is left", func() {
			So(SanitizeFilename(" ?*. "), ShouldEqual, "untitled")
		})

		Convey("Should cut long titles on a rune boundary", func() {
			name := SanitizeFilename(strings.Repeat("話", 100))
			So(len(name), ShouldBeLessThanOrEqualTo, maxFilenameBytes)
			So(utf8.ValidString(name), ShouldBeTrue)
		})
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem should drop only the last extension", t, func() {
		So(FileStem("/videos/episode.01.mp4"), ShouldEqual, "episode.01")
		So(FileStem("episode"), ShouldEqual, "episode")
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "entry", "entries"), ShouldEqual, "1 entry")
		So(Quantify(0, "entry", "entries"), ShouldEqual, "0 entries")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("browsers"), ShouldEqual, "Browsers")
		So(Capitalize("ärger"), ShouldEqual, "Ärger")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`Chrome (?P<major>\d+)\.(?P<rest>[\d.]+)`)

		groups := ReGroups(re, "Google Chrome 131.0.6778.85")
		So(groups, ShouldResemble, map[string]string{"major": "131", "rest": "0.6778.85"})

		So(ReGroups(re, "Chromium"), ShouldBeEmpty)
	})
}
