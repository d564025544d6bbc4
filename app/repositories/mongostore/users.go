package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
)

type userRepo struct{ s *Store }

func (r *userRepo) All(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, r.s, "users.all", colUsers, bson.M{})
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.s, "users.find_by_email", colUsers, bson.M{"email": email})
}

// Create upserts on email with $setOnInsert so an existing user is never
// touched. The unique email index turns a lost race into ErrUserExists.
func (r *userRepo) Create(ctx context.Context, u *models.User) (repositories.InsertResult, error) {
	defer r.s.observe("users.create", time.Now())

	id := models.NewID()
	oid, _ := id.ObjectID()
	update := bson.M{"$setOnInsert": bson.M{
		"_id":   oid,
		"name":  u.Name,
		"photo": u.Photo,
		"role":  u.Role,
	}}

	res, err := r.s.col(colUsers).UpdateOne(ctx, bson.M{"email": u.Email}, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return repositories.InsertResult{}, repositories.ErrUserExists
	}
	if err != nil {
		return repositories.InsertResult{}, fmt.Errorf("users.create: %w", err)
	}
	if res.UpsertedCount == 0 {
		return repositories.InsertResult{}, repositories.ErrUserExists
	}
	u.ID = id
	return repositories.Inserted(id), nil
}

func (r *userRepo) SetRole(ctx context.Context, id models.ID, role string) (repositories.UpdateResult, error) {
	return updateByID(ctx, r.s, "users.set_role", colUsers, id, bson.M{"$set": bson.M{"role": role}})
}

func (r *userRepo) SetRoleByEmail(ctx context.Context, email, role string) (repositories.UpdateResult, error) {
	defer r.s.observe("users.set_role_by_email", time.Now())

	res, err := r.s.col(colUsers).UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return repositories.UpdateResult{}, fmt.Errorf("users.set_role_by_email: %w", err)
	}
	return repositories.Updated(res.MatchedCount, res.ModifiedCount), nil
}
