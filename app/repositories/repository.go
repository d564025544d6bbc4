// Package repositories defines the storage contracts the HTTP handlers use.
// Two implementations exist: mongostore (the default) and sqlstore (gorm).
//
// Lookups that find nothing return (nil, nil); lists return an empty,
// non-nil slice. Write operations return driver-shaped results that the
// handlers send back to the client unchanged.
package repositories

import (
	"context"
	"errors"

	"github.com/hostelmania/server/app/models"
)

var (
	// ErrInvalidID is returned when an id is not a 24-digit hex ObjectID.
	ErrInvalidID = models.ErrInvalidID

	// ErrUserExists is returned by UserRepository.Create when the email is
	// already registered.
	ErrUserExists = errors.New("user already exists")
)

// InsertResult mirrors a MongoDB insertOne acknowledgement.
type InsertResult struct {
	Acknowledged bool       `json:"acknowledged"`
	InsertedID   *models.ID `json:"insertedId"`
}

// UpdateResult mirrors a MongoDB updateOne acknowledgement.
type UpdateResult struct {
	Acknowledged  bool       `json:"acknowledged"`
	MatchedCount  int64      `json:"matchedCount"`
	ModifiedCount int64      `json:"modifiedCount"`
	UpsertedID    *models.ID `json:"upsertedId"`
	UpsertedCount int64      `json:"upsertedCount"`
}

// DeleteResult mirrors a MongoDB deleteOne acknowledgement.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Inserted builds the result for a successful insert of id.
func Inserted(id models.ID) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: &id}
}

// Updated builds an update result. Neither backend upserts.
func Updated(matched, modified int64) UpdateResult {
	return UpdateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}
}

// Deleted builds a delete result.
func Deleted(n int64) DeleteResult {
	return DeleteResult{Acknowledged: true, DeletedCount: n}
}

type UserRepository interface {
	All(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts u unless a user with the same email exists, in which
	// case it returns ErrUserExists. The check and insert are atomic.
	Create(ctx context.Context, u *models.User) (InsertResult, error)
	SetRole(ctx context.Context, id models.ID, role string) (UpdateResult, error)
	SetRoleByEmail(ctx context.Context, email, role string) (UpdateResult, error)
}

type MenuRepository interface {
	All(ctx context.Context) ([]models.MenuItem, error)
	FindByID(ctx context.Context, id models.ID) (*models.MenuItem, error)
	FindByEmail(ctx context.Context, email string) ([]models.MenuItem, error)
	IDs(ctx context.Context) ([]models.ID, error)
	Create(ctx context.Context, item *models.MenuItem) (InsertResult, error)
	// Replace overwrites every descriptive field of the item, counters
	// included.
	Replace(ctx context.Context, id models.ID, d models.MealDetails) (UpdateResult, error)
	// Like atomically increments the like counter by one.
	Like(ctx context.Context, id models.ID) (UpdateResult, error)
	SetReviewCount(ctx context.Context, id models.ID, n int64) (UpdateResult, error)
	Delete(ctx context.Context, id models.ID) (DeleteResult, error)
}

type ReviewRepository interface {
	All(ctx context.Context) ([]models.Review, error)
	FindByID(ctx context.Context, id models.ID) (*models.Review, error)
	FindByEmail(ctx context.Context, email string) ([]models.Review, error)
	CountForMenu(ctx context.Context, menuID models.ID) (int64, error)
	// Create stores the review and increments the reviewed menu item's
	// review counter as one unit.
	Create(ctx context.Context, r *models.Review) (InsertResult, error)
	UpdateText(ctx context.Context, id models.ID, text string) (UpdateResult, error)
	Delete(ctx context.Context, id models.ID) (DeleteResult, error)
}

type MealRequestRepository interface {
	All(ctx context.Context) ([]models.MealRequest, error)
	FindByID(ctx context.Context, id models.ID) (*models.MealRequest, error)
	FindByEmail(ctx context.Context, email string) ([]models.MealRequest, error)
	Create(ctx context.Context, m *models.MealRequest) (InsertResult, error)
	SetStatus(ctx context.Context, id models.ID, status string) (UpdateResult, error)
	Delete(ctx context.Context, id models.ID) (DeleteResult, error)
}

type UpcomingMealRepository interface {
	All(ctx context.Context) ([]models.UpcomingMeal, error)
	Create(ctx context.Context, m *models.UpcomingMeal) (InsertResult, error)
	Delete(ctx context.Context, id models.ID) (DeleteResult, error)
}

// Store is the process-wide storage handle. It is created once at boot and
// shared by every handler.
type Store interface {
	Users() UserRepository
	Menu() MenuRepository
	Reviews() ReviewRepository
	MealRequests() MealRequestRepository
	UpcomingMeals() UpcomingMealRepository

	// Migrate creates indexes or tables. It is safe to run repeatedly.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	// Driver names the backend, e.g. "mongo" or "sqlite".
	Driver() string
}
