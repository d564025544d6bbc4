// Package sqlstore implements the repositories on top of gorm. It serves
// the sqlite, postgres, mysql and sqlserver backends.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/metrics"
)

// Store is a repositories.Store backed by a *gorm.DB.
type Store struct {
	db     *gorm.DB
	driver string
}

var _ repositories.Store = (*Store)(nil)

// New wraps an open gorm handle. driver is only used for labelling.
func New(db *gorm.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

func (s *Store) Users() repositories.UserRepository                 { return &userRepo{s} }
func (s *Store) Menu() repositories.MenuRepository                  { return &menuRepo{s} }
func (s *Store) Reviews() repositories.ReviewRepository             { return &reviewRepo{s} }
func (s *Store) MealRequests() repositories.MealRequestRepository   { return &mealRequestRepo{s} }
func (s *Store) UpcomingMeals() repositories.UpcomingMealRepository { return &upcomingRepo{s} }

func (s *Store) Driver() string { return s.driver }

// Migrate creates or updates every table.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Review{},
		&models.MealRequest{},
		&models.UpcomingMeal{},
	)
	if err != nil {
		return fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) observe(op string, start time.Time) {
	metrics.ObserveStoreOp(s.driver, op, start)
}

// ─── shared helpers ───────────────────────────────────────────────────────────

func findAll[T any](ctx context.Context, s *Store, op string, query any, args ...any) ([]T, error) {
	defer s.observe(op, time.Now())

	out := []T{}
	q := s.conn(ctx).Order("id")
	if query != nil {
		q = q.Where(query, args...)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func findOne[T any](ctx context.Context, s *Store, op string, id models.ID) (*T, error) {
	defer s.observe(op, time.Now())

	var out T
	err := s.conn(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

func updateColumns[T any](ctx context.Context, s *Store, op string, id models.ID, values any) (repositories.UpdateResult, error) {
	defer s.observe(op, time.Now())

	var model T
	res := s.conn(ctx).Model(&model).Where("id = ?", id).UpdateColumns(values)
	if res.Error != nil {
		return repositories.UpdateResult{}, fmt.Errorf("%s: %w", op, res.Error)
	}
	return repositories.Updated(res.RowsAffected, res.RowsAffected), nil
}

func deleteByID[T any](ctx context.Context, s *Store, op string, id models.ID) (repositories.DeleteResult, error) {
	defer s.observe(op, time.Now())

	var model T
	res := s.conn(ctx).Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return repositories.DeleteResult{}, fmt.Errorf("%s: %w", op, res.Error)
	}
	return repositories.Deleted(res.RowsAffected), nil
}

func insert(ctx context.Context, s *Store, op string, id *models.ID, value any) (repositories.InsertResult, error) {
	defer s.observe(op, time.Now())

	*id = models.NewID()
	if err := s.conn(ctx).Create(value).Error; err != nil {
		return repositories.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return repositories.Inserted(*id), nil
}
