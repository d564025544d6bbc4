package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
)

type menuRepo struct{ s *Store }

func (r *menuRepo) All(ctx context.Context) ([]models.MenuItem, error) {
	return findAll[models.MenuItem](ctx, r.s, "menu.all", colMenu, bson.M{})
}

func (r *menuRepo) FindByID(ctx context.Context, id models.ID) (*models.MenuItem, error) {
	return findByID[models.MenuItem](ctx, r.s, "menu.find", colMenu, id)
}

func (r *menuRepo) FindByEmail(ctx context.Context, email string) ([]models.MenuItem, error) {
	return findAll[models.MenuItem](ctx, r.s, "menu.find_by_email", colMenu, bson.M{"email": email})
}

func (r *menuRepo) IDs(ctx context.Context) ([]models.ID, error) {
	defer r.s.observe("menu.ids", time.Now())

	cur, err := r.s.col(colMenu).Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("menu.ids: %w", err)
	}
	var docs []struct {
		ID models.ID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("menu.ids: decode: %w", err)
	}
	ids := make([]models.ID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *menuRepo) Create(ctx context.Context, item *models.MenuItem) (repositories.InsertResult, error) {
	return insert(ctx, r.s, "menu.create", colMenu, &item.ID, item)
}

func (r *menuRepo) Replace(ctx context.Context, id models.ID, d models.MealDetails) (repositories.UpdateResult, error) {
	return updateByID(ctx, r.s, "menu.replace", colMenu, id, bson.M{"$set": d})
}

func (r *menuRepo) Like(ctx context.Context, id models.ID) (repositories.UpdateResult, error) {
	return updateByID(ctx, r.s, "menu.like", colMenu, id, bson.M{"$inc": bson.M{"like": 1}})
}

func (r *menuRepo) SetReviewCount(ctx context.Context, id models.ID, n int64) (repositories.UpdateResult, error) {
	return updateByID(ctx, r.s, "menu.set_review_count", colMenu, id, bson.M{"$set": bson.M{"reviews": n}})
}

func (r *menuRepo) Delete(ctx context.Context, id models.ID) (repositories.DeleteResult, error) {
	return deleteByID(ctx, r.s, "menu.delete", colMenu, id)
}

type upcomingRepo struct{ s *Store }

func (r *upcomingRepo) All(ctx context.Context) ([]models.UpcomingMeal, error) {
	return findAll[models.UpcomingMeal](ctx, r.s, "upcoming.all", colUpcoming, bson.M{})
}

func (r *upcomingRepo) Create(ctx context.Context, m *models.UpcomingMeal) (repositories.InsertResult, error) {
	return insert(ctx, r.s, "upcoming.create", colUpcoming, &m.ID, m)
}

func (r *upcomingRepo) Delete(ctx context.Context, id models.ID) (repositories.DeleteResult, error) {
	return deleteByID(ctx, r.s, "upcoming.delete", colUpcoming, id)
}
