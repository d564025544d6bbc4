// Package jobs holds the background jobs run on the queue.
package jobs

import (
	"context"
	"fmt"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/queue"
	"github.com/hostelmania/server/pkg/workerpool"
)

// RecountReviewsJob is the queue name of RecountReviews.
const RecountReviewsJob = "reviews.recount"

// RecountReviews sets a menu item's review counter to the number of stored
// reviews for it. Running it twice is harmless.
type RecountReviews struct {
	MenuID models.ID `json:"menuId"`

	store repositories.Store
}

func (j *RecountReviews) Name() string { return RecountReviewsJob }

func (j *RecountReviews) Handle(ctx context.Context) error {
	return Recount(ctx, j.store, j.MenuID)
}

// Register makes the jobs in this package runnable by q's workers.
func Register(q *queue.Manager, store repositories.Store) {
	q.Register(RecountReviewsJob, func() queue.Job { return &RecountReviews{store: store} })
}

// Recount recomputes the review counter of one menu item. A menu item that
// no longer exists is not an error.
func Recount(ctx context.Context, store repositories.Store, menuID models.ID) error {
	n, err := store.Reviews().CountForMenu(ctx, menuID)
	if err != nil {
		return fmt.Errorf("recount %s: %w", menuID, err)
	}
	res, err := store.Menu().SetReviewCount(ctx, menuID, n)
	if err != nil {
		return fmt.Errorf("recount %s: %w", menuID, err)
	}
	logger.WithCtx(ctx).Debug("reviews recounted", "menu_id", menuID, "reviews", n, "matched", res.MatchedCount)
	return nil
}

// RecountAll recomputes every menu item's counter on a pool of workers and
// returns how many items were processed.
func RecountAll(ctx context.Context, store repositories.Store, workers int) (int, error) {
	ids, err := store.Menu().IDs(ctx)
	if err != nil {
		return 0, err
	}

	pool := workerpool.New(workers)
	defer pool.Shutdown()

	err = pool.Each(ctx, len(ids), func(ctx context.Context, i int) error {
		return Recount(ctx, store, ids[i])
	})
	return len(ids), err
}
