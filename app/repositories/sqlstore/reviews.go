package sqlstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
)

type reviewRepo struct{ s *Store }

func (r *reviewRepo) All(ctx context.Context) ([]models.Review, error) {
	return findAll[models.Review](ctx, r.s, "reviews.all", nil)
}

func (r *reviewRepo) FindByID(ctx context.Context, id models.ID) (*models.Review, error) {
	return findOne[models.Review](ctx, r.s, "reviews.find", id)
}

func (r *reviewRepo) FindByEmail(ctx context.Context, email string) ([]models.Review, error) {
	return findAll[models.Review](ctx, r.s, "reviews.find_by_email", "email = ?", email)
}

func (r *reviewRepo) CountForMenu(ctx context.Context, menuID models.ID) (int64, error) {
	defer r.s.observe("reviews.count", time.Now())

	var n int64
	if err := r.s.conn(ctx).Model(&models.Review{}).Where("menu_id = ?", menuID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("reviews.count: %w", err)
	}
	return n, nil
}

// Create inserts the review and bumps the menu item's counter in one
// transaction. A review for an unknown menu item is still stored.
func (r *reviewRepo) Create(ctx context.Context, rev *models.Review) (repositories.InsertResult, error) {
	defer r.s.observe("reviews.create", time.Now())

	rev.ID = models.NewID()
	err := r.s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rev).Error; err != nil {
			return err
		}
		return tx.Model(&models.MenuItem{}).
			Where("id = ?", rev.MenuID).
			UpdateColumn("reviews", gorm.Expr("reviews + ?", 1)).Error
	})
	if err != nil {
		rev.ID = ""
		return repositories.InsertResult{}, fmt.Errorf("reviews.create: %w", err)
	}
	return repositories.Inserted(rev.ID), nil
}

func (r *reviewRepo) UpdateText(ctx context.Context, id models.ID, text string) (repositories.UpdateResult, error) {
	return updateColumns[models.Review](ctx, r.s, "reviews.update", id, map[string]any{"review": text})
}

func (r *reviewRepo) Delete(ctx context.Context, id models.ID) (repositories.DeleteResult, error) {
	return deleteByID[models.Review](ctx, r.s, "reviews.delete", id)
}

type mealRequestRepo struct{ s *Store }

func (r *mealRequestRepo) All(ctx context.Context) ([]models.MealRequest, error) {
	return findAll[models.MealRequest](ctx, r.s, "mealrequests.all", nil)
}

func (r *mealRequestRepo) FindByID(ctx context.Context, id models.ID) (*models.MealRequest, error) {
	return findOne[models.MealRequest](ctx, r.s, "mealrequests.find", id)
}

func (r *mealRequestRepo) FindByEmail(ctx context.Context, email string) ([]models.MealRequest, error) {
	return findAll[models.MealRequest](ctx, r.s, "mealrequests.find_by_email", "email = ?", email)
}

func (r *mealRequestRepo) Create(ctx context.Context, m *models.MealRequest) (repositories.InsertResult, error) {
	return insert(ctx, r.s, "mealrequests.create", &m.ID, m)
}

func (r *mealRequestRepo) SetStatus(ctx context.Context, id models.ID, status string) (repositories.UpdateResult, error) {
	return updateColumns[models.MealRequest](ctx, r.s, "mealrequests.set_status", id, map[string]any{"status": status})
}

func (r *mealRequestRepo) Delete(ctx context.Context, id models.ID) (repositories.DeleteResult, error) {
	return deleteByID[models.MealRequest](ctx, r.s, "mealrequests.delete", id)
}
