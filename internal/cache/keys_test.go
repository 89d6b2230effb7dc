package cache

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyBuilder(t *testing.T) {
	Convey("Given a key builder", t, func() {
		b := NewKeyBuilder("sourcer")

		Convey("When building a key from plain segments", func() {
			key := b.Key("keyword", "wireless-earbuds")

			Convey("Then segments are joined with the delimiter", func() {
				So(key, ShouldEqual, "sourcer:keyword:wireless-earbuds")
			})
		})

		Convey("When segments contain uppercase and punctuation", func() {
			key := b.Key("Keyword", "Wireless Earbuds!")

			Convey("Then segments are slug-normalized", func() {
				So(key, ShouldEqual, "sourcer:keyword:wireless-earbuds")
			})
		})

		Convey("When building a prefix", func() {
			prefix := b.Prefix("keyword")

			Convey("Then it ends with the delimiter", func() {
				So(prefix, ShouldEqual, "sourcer:keyword:")
			})
		})

		Convey("When the same logical key is built twice", func() {
			So(b.Key("score", "A B"), ShouldEqual, b.Key("score", "a-b"))
		})
	})
}
