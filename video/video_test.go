package video

import (
	"testing"

	"github.com/episodl/episodl/language"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseShorthand(t *testing.T) {
	Convey("ParseShorthand", t, func() {
		Convey("Should map the bare literals", func() {
			cases := map[string]Type{
				"unspecified": None,
				"RAW":         {Kind: Raw},
				"Dub":         {Kind: Dub},
				"sub":         {Kind: Sub},
			}
			for input, want := range cases {
				got, err := ParseShorthand(input)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)
			}
		})

		Convey("Should decode a language prefix before dub or sub", func() {
			got, err := ParseShorthand("ENdub")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Type{Kind: Dub, Language: language.English})

			got, err = ParseShorthand("endub")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Type{Kind: Dub, Language: language.English})

			got, err = ParseShorthand("DeSub")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Type{Kind: Sub, Language: language.German})
		})

		Convey("Should fall back to language names and codes", func() {
			got, err := ParseShorthand("japanese")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Type{Kind: Unspecified, Language: language.Japanese})

			got, err = ParseShorthand("fr")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Type{Kind: Unspecified, Language: language.French})
		})

		Convey("Should fail with the original input in the message", func() {
			_, err := ParseShorthand("XXdub")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, `"XXdub"`)
		})

		Convey("Should not treat an empty prefix as a language", func() {
			_, err := ParseShorthand("")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Resolve", t, func() {
		Convey("A shorthand other than None wins", func() {
			got := Resolve(Sub, language.German, Type{Kind: Dub, Language: language.English})
			So(got, ShouldResemble, Type{Kind: Dub, Language: language.English})
		})

		Convey("Unspecified type carries the language", func() {
			So(Resolve(Unspecified, language.German, None), ShouldResemble, Type{Kind: Unspecified, Language: language.German})
		})

		Convey("Raw ignores the language", func() {
			So(Resolve(Raw, language.German, None), ShouldResemble, Type{Kind: Raw})
		})

		Convey("Dub and Sub carry the language", func() {
			So(Resolve(Dub, language.Japanese, None), ShouldResemble, Type{Kind: Dub, Language: language.Japanese})
			So(Resolve(Sub, language.Unspecified, None), ShouldResemble, Type{Kind: Sub})
		})

		Convey("Nothing requested stays None", func() {
			So(Resolve(Unspecified, language.Unspecified, None), ShouldResemble, None)
		})
	})
}

func TestFlagValues(t *testing.T) {
	Convey("Given the -t flag value", t, func() {
		var s Shorthand
		So(s.Value, ShouldResemble, None)
		So(s.Set("ensub"), ShouldBeNil)
		So(s.String(), ShouldEqual, "ENsub")
		So(s.Type(), ShouldEqual, "SHORTHAND")
	})

	Convey("Given the --type flag value", t, func() {
		var k Kind
		So(k.Set("DUB"), ShouldBeNil)
		So(k, ShouldEqual, Dub)
		So(k.Set("hardsub"), ShouldNotBeNil)
	})
}
