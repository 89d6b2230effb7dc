package repository

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
)

func TestTreapStoreRecord(t *testing.T) {
	Convey("Given an empty ranking store", t, func() {
		ctx := context.Background()
		store := NewTreapStore()

		Convey("When recording a keyword", func() {
			changed := store.Record(ctx, "wireless earbuds", 73.2, model.TierModerate, 10000)

			Convey("Then the ranking changes and tracks it", func() {
				So(changed, ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("And recording the identical score again is a no-op", func() {
				So(store.Record(ctx, "wireless earbuds", 73.2, model.TierModerate, 10000), ShouldBeFalse)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("And a re-score replaces the previous entry", func() {
				So(store.Record(ctx, "wireless earbuds", 41.5, model.TierCautious, 8000), ShouldBeTrue)
				entry, err := store.Rank(ctx, "wireless earbuds")
				So(err, ShouldBeNil)
				So(entry.Score, ShouldEqual, 41.5)
				So(entry.Tier, ShouldEqual, model.TierCautious)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When recording an empty keyword", func() {
			So(store.Record(ctx, "", 50, model.TierCautious, 0), ShouldBeFalse)
			So(store.Count(ctx), ShouldEqual, 0)
		})
	})
}

func TestTreapStoreTopN(t *testing.T) {
	Convey("Given a store with several keywords", t, func() {
		ctx := context.Background()
		store := NewTreapStore()
		store.Record(ctx, "earbuds", 85, model.TierStrong, 50000)
		store.Record(ctx, "phone case", 62, model.TierModerate, 30000)
		store.Record(ctx, "cable", 45, model.TierCautious, 9000)
		store.Record(ctx, "charger", 62, model.TierModerate, 20000)

		Convey("When asking for the top 3", func() {
			top, err := store.TopN(ctx, 3)
			So(err, ShouldBeNil)

			Convey("Then entries come back in score order", func() {
				So(len(top), ShouldEqual, 3)
				So(top[0].Keyword, ShouldEqual, "earbuds")
				So(top[0].Rank, ShouldEqual, 1)
			})

			Convey("And equal scores share a rank with keyword tie-break", func() {
				So(top[1].Keyword, ShouldEqual, "charger")
				So(top[2].Keyword, ShouldEqual, "phone case")
				So(top[1].Rank, ShouldEqual, 2)
				So(top[2].Rank, ShouldEqual, 2)
			})
		})

		Convey("When asking for more entries than exist", func() {
			top, err := store.TopN(ctx, 100)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 4)
			So(top[3].Rank, ShouldEqual, 3)
		})

		Convey("When the limit is invalid", func() {
			_, err := store.TopN(ctx, 0)
			So(err, ShouldEqual, ErrInvalidLimit)
		})
	})
}

func TestTreapStoreRank(t *testing.T) {
	Convey("Given a populated ranking store", t, func() {
		ctx := context.Background()
		store := NewTreapStore()
		for i := 0; i < 20; i++ {
			store.Record(ctx, fmt.Sprintf("keyword-%02d", i), float64(i*5), model.TierCautious, i*100)
		}

		Convey("When looking up the best keyword", func() {
			entry, err := store.Rank(ctx, "keyword-19")
			So(err, ShouldBeNil)
			So(entry.Rank, ShouldEqual, 1)
			So(entry.Score, ShouldEqual, 95)
		})

		Convey("When looking up a mid-ranked keyword", func() {
			entry, err := store.Rank(ctx, "keyword-10")
			So(err, ShouldBeNil)
			So(entry.Rank, ShouldEqual, 10)
		})

		Convey("When looking up an unknown keyword", func() {
			_, err := store.Rank(ctx, "never scored")
			So(err, ShouldEqual, ErrNotFound)
		})
	})
}

func TestTreapStoreConcurrency(t *testing.T) {
	Convey("Given concurrent writers and readers", t, func() {
		ctx := context.Background()
		store := NewTreapStore()
		done := make(chan struct{})

		for g := 0; g < 4; g++ {
			go func(g int) {
				defer func() { done <- struct{}{} }()
				for i := 0; i < 200; i++ {
					keyword := fmt.Sprintf("kw-%d-%d", g, i%50)
					store.Record(ctx, keyword, float64(i%100), model.TierCautious, i)
					_, _ = store.TopN(ctx, 10)
				}
			}(g)
		}
		for g := 0; g < 4; g++ {
			<-done
		}

		Convey("Then the store stays consistent", func() {
			So(store.Count(ctx), ShouldEqual, 200)
			top, err := store.TopN(ctx, 200)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 200)
			for i := 1; i < len(top); i++ {
				So(top[i].Score, ShouldBeLessThanOrEqualTo, top[i-1].Score)
			}
		})
	})
}

func BenchmarkTreapStoreRecord(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Record(ctx, fmt.Sprintf("kw-%d", i%10000), float64(i%100), model.TierCautious, i)
	}
}

func BenchmarkTreapStoreTopN(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore()
	for i := 0; i < 10000; i++ {
		store.Record(ctx, fmt.Sprintf("kw-%d", i), float64(i%100), model.TierCautious, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.TopN(ctx, 100)
	}
}
