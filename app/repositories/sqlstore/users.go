package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
)

type userRepo struct{ s *Store }

func (r *userRepo) All(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, r.s, "users.all", nil)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.observe("users.find_by_email", time.Now())

	var u models.User
	err := r.s.conn(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users.find_by_email: %w", err)
	}
	return &u, nil
}

// Create relies on the unique email index: a conflicting insert affects no
// rows.
func (r *userRepo) Create(ctx context.Context, u *models.User) (repositories.InsertResult, error) {
	defer r.s.observe("users.create", time.Now())

	u.ID = models.NewID()
	res := r.s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(u)
	if res.Error != nil {
		return repositories.InsertResult{}, fmt.Errorf("users.create: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		u.ID = ""
		return repositories.InsertResult{}, repositories.ErrUserExists
	}
	return repositories.Inserted(u.ID), nil
}

func (r *userRepo) SetRole(ctx context.Context, id models.ID, role string) (repositories.UpdateResult, error) {
	return updateColumns[models.User](ctx, r.s, "users.set_role", id, map[string]any{"role": role})
}

func (r *userRepo) SetRoleByEmail(ctx context.Context, email, role string) (repositories.UpdateResult, error) {
	defer r.s.observe("users.set_role_by_email", time.Now())

	res := r.s.conn(ctx).Model(&models.User{}).Where("email = ?", email).UpdateColumn("role", role)
	if res.Error != nil {
		return repositories.UpdateResult{}, fmt.Errorf("users.set_role_by_email: %w", res.Error)
	}
	return repositories.Updated(res.RowsAffected, res.RowsAffected), nil
}
