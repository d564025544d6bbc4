package sqlstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
)

type menuRepo struct{ s *Store }

func (r *menuRepo) All(ctx context.Context) ([]models.MenuItem, error) {
	return findAll[models.MenuItem](ctx, r.s, "menu.all", nil)
}

func (r *menuRepo) FindByID(ctx context.Context, id models.ID) (*models.MenuItem, error) {
	return findOne[models.MenuItem](ctx, r.s, "menu.find", id)
}

func (r *menuRepo) FindByEmail(ctx context.Context, email string) ([]models.MenuItem, error) {
	return findAll[models.MenuItem](ctx, r.s, "menu.find_by_email", "email = ?", email)
}

func (r *menuRepo) IDs(ctx context.Context) ([]models.ID, error) {
	defer r.s.observe("menu.ids", time.Now())

	ids := []models.ID{}
	if err := r.s.conn(ctx).Model(&models.MenuItem{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("menu.ids: %w", err)
	}
	return ids, nil
}

func (r *menuRepo) Create(ctx context.Context, item *models.MenuItem) (repositories.InsertResult, error) {
	return insert(ctx, r.s, "menu.create", &item.ID, item)
}

func (r *menuRepo) Replace(ctx context.Context, id models.ID, d models.MealDetails) (repositories.UpdateResult, error) {
	return updateColumns[models.MenuItem](ctx, r.s, "menu.replace", id, detailColumns(d))
}

func (r *menuRepo) Like(ctx context.Context, id models.ID) (repositories.UpdateResult, error) {
	return updateColumns[models.MenuItem](ctx, r.s, "menu.like", id,
		map[string]any{"likes": gorm.Expr("likes + ?", 1)})
}

func (r *menuRepo) SetReviewCount(ctx context.Context, id models.ID, n int64) (repositories.UpdateResult, error) {
	return updateColumns[models.MenuItem](ctx, r.s, "menu.set_review_count", id, map[string]any{"reviews": n})
}

func (r *menuRepo) Delete(ctx context.Context, id models.ID) (repositories.DeleteResult, error) {
	return deleteByID[models.MenuItem](ctx, r.s, "menu.delete", id)
}

// detailColumns lists every descriptive column so zero values are written
// too.
func detailColumns(d models.MealDetails) map[string]any {
	return map[string]any{
		"name":        d.Name,
		"email":       d.Email,
		"food_name":   d.FoodName,
		"category":    d.Category,
		"price":       d.Price,
		"image":       d.Image,
		"ingredients": d.Ingredients,
		"description": d.Description,
		"serve_time":  d.Time,
		"likes":       d.Like,
		"reviews":     d.Reviews,
	}
}

type upcomingRepo struct{ s *Store }

func (r *upcomingRepo) All(ctx context.Context) ([]models.UpcomingMeal, error) {
	return findAll[models.UpcomingMeal](ctx, r.s, "upcoming.all", nil)
}

func (r *upcomingRepo) Create(ctx context.Context, m *models.UpcomingMeal) (repositories.InsertResult, error) {
	return insert(ctx, r.s, "upcoming.create", &m.ID, m)
}

func (r *upcomingRepo) Delete(ctx context.Context, id models.ID) (repositories.DeleteResult, error) {
	return deleteByID[models.UpcomingMeal](ctx, r.s, "upcoming.delete", id)
}
