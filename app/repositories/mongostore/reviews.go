package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
)

type reviewRepo struct{ s *Store }

func (r *reviewRepo) All(ctx context.Context) ([]models.Review, error) {
	return findAll[models.Review](ctx, r.s, "reviews.all", colReviews, bson.M{})
}

func (r *reviewRepo) FindByID(ctx context.Context, id models.ID) (*models.Review, error) {
	return findByID[models.Review](ctx, r.s, "reviews.find", colReviews, id)
}

func (r *reviewRepo) FindByEmail(ctx context.Context, email string) ([]models.Review, error) {
	return findAll[models.Review](ctx, r.s, "reviews.find_by_email", colReviews, bson.M{"email": email})
}

func (r *reviewRepo) CountForMenu(ctx context.Context, menuID models.ID) (int64, error) {
	defer r.s.observe("reviews.count", time.Now())

	n, err := r.s.col(colReviews).CountDocuments(ctx, refFilter("id", menuID))
	if err != nil {
		return 0, fmt.Errorf("reviews.count: %w", err)
	}
	return n, nil
}

// Create stores the review and bumps the menu item's review counter. With
// transactions enabled both writes commit together; otherwise, or when the
// server turns out not to support them, the counter is recomputed from the
// review count after the insert.
func (r *reviewRepo) Create(ctx context.Context, rev *models.Review) (repositories.InsertResult, error) {
	menuFilter, err := idFilter(rev.MenuID)
	if err != nil {
		return repositories.InsertResult{}, err
	}
	if !r.s.useTransactions() {
		return r.createThenRecount(ctx, rev)
	}

	defer r.s.observe("reviews.create", time.Now())

	sess, err := r.s.client.StartSession()
	if err != nil {
		return repositories.InsertResult{}, fmt.Errorf("reviews.create: start session: %w", err)
	}
	defer sess.EndSession(ctx)

	rev.ID = models.NewID()
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.s.col(colReviews).InsertOne(sc, rev); err != nil {
			return nil, err
		}
		return r.s.col(colMenu).UpdateOne(sc, menuFilter, bson.M{"$inc": bson.M{"reviews": 1}})
	})
	if err != nil {
		rev.ID = ""
		if r.s.disableTransactions(err) {
			return r.createThenRecount(ctx, rev)
		}
		return repositories.InsertResult{}, fmt.Errorf("reviews.create: %w", err)
	}
	return repositories.Inserted(rev.ID), nil
}

func (r *reviewRepo) createThenRecount(ctx context.Context, rev *models.Review) (repositories.InsertResult, error) {
	res, err := insert(ctx, r.s, "reviews.create", colReviews, &rev.ID, rev)
	if err != nil {
		return res, err
	}
	n, err := r.CountForMenu(ctx, rev.MenuID)
	if err != nil {
		return res, err
	}
	if _, err := (&menuRepo{r.s}).SetReviewCount(ctx, rev.MenuID, n); err != nil {
		return res, err
	}
	return res, nil
}

func (r *reviewRepo) UpdateText(ctx context.Context, id models.ID, text string) (repositories.UpdateResult, error) {
	return updateByID(ctx, r.s, "reviews.update", colReviews, id, bson.M{"$set": bson.M{"review": text}})
}

func (r *reviewRepo) Delete(ctx context.Context, id models.ID) (repositories.DeleteResult, error) {
	return deleteByID(ctx, r.s, "reviews.delete", colReviews, id)
}

type mealRequestRepo struct{ s *Store }

func (r *mealRequestRepo) All(ctx context.Context) ([]models.MealRequest, error) {
	return findAll[models.MealRequest](ctx, r.s, "mealrequests.all", colMealRequests, bson.M{})
}

func (r *mealRequestRepo) FindByID(ctx context.Context, id models.ID) (*models.MealRequest, error) {
	return findByID[models.MealRequest](ctx, r.s, "mealrequests.find", colMealRequests, id)
}

func (r *mealRequestRepo) FindByEmail(ctx context.Context, email string) ([]models.MealRequest, error) {
	return findAll[models.MealRequest](ctx, r.s, "mealrequests.find_by_email", colMealRequests, bson.M{"email": email})
}

func (r *mealRequestRepo) Create(ctx context.Context, m *models.MealRequest) (repositories.InsertResult, error) {
	return insert(ctx, r.s, "mealrequests.create", colMealRequests, &m.ID, m)
}

func (r *mealRequestRepo) SetStatus(ctx context.Context, id models.ID, status string) (repositories.UpdateResult, error) {
	return updateByID(ctx, r.s, "mealrequests.set_status", colMealRequests, id, bson.M{"$set": bson.M{"status": status}})
}

func (r *mealRequestRepo) Delete(ctx context.Context, id models.ID) (repositories.DeleteResult, error) {
	return deleteByID(ctx, r.s, "mealrequests.delete", colMealRequests, id)
}
