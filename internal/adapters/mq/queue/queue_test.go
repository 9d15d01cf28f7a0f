package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/nanavatisneha/analytics-handbook/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a small bounded queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueuing within capacity", func() {
			ok1 := q.Enqueue(ctx, queue.Job{MatchID: 1})
			ok2 := q.Enqueue(ctx, queue.Job{MatchID: 2})

			Convey("Then both jobs are accepted", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a third job is rejected with backpressure", func() {
				So(q.Enqueue(ctx, queue.Job{MatchID: 3}), ShouldBeFalse)
			})
		})

		Convey("When dequeuing", func() {
			q.Enqueue(ctx, queue.Job{MatchID: 11})
			q.Enqueue(ctx, queue.Job{MatchID: 12})

			ch := q.Dequeue(ctx)

			Convey("Then jobs come out in order", func() {
				So((<-ch).MatchID, ShouldEqual, 11)
				So((<-ch).MatchID, ShouldEqual, 12)
			})
		})

		Convey("When closing the queue", func() {
			q.Enqueue(ctx, queue.Job{MatchID: 21})
			So(q.Close(), ShouldBeNil)

			Convey("Then no new jobs are accepted", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Job{MatchID: 22}), ShouldBeFalse)
			})

			Convey("And pending jobs are still delivered before the channel closes", func() {
				ch := q.Dequeue(ctx)
				j, ok := <-ch
				So(ok, ShouldBeTrue)
				So(j.MatchID, ShouldEqual, 21)

				select {
				case _, ok := <-ch:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
