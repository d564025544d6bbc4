// Package mongostore implements the repositories on MongoDB using the
// collection names of the hostelmaniaDB database.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/metrics"
)

const (
	colUsers        = "users"
	colMenu         = "menu"
	colReviews      = "review"
	colMealRequests = "mealrequests"
	colUpcoming     = "upcomingMeals"
)

// Store is a repositories.Store backed by one MongoDB database.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
	noTxn        atomic.Bool // set once the server rejects transactions
}

var _ repositories.Store = (*Store)(nil)

// New uses client for database. When transactions is true, review
// creation runs in a multi-document transaction, which needs a replica set;
// a standalone server that rejects it switches the store to insert-then-
// recount for the rest of the process.
func New(client *mongo.Client, database string, transactions bool) *Store {
	return &Store{
		client:       client,
		db:           client.Database(database),
		transactions: transactions,
	}
}

// codeIllegalOperation is what a standalone mongod answers to a transaction.
const codeIllegalOperation = 20

func (s *Store) useTransactions() bool {
	return s.transactions && !s.noTxn.Load()
}

// disableTransactions reports whether err means the server cannot run
// transactions, and if so turns them off for this store.
func (s *Store) disableTransactions(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) || !se.HasErrorCode(codeIllegalOperation) {
		return false
	}
	if !strings.Contains(err.Error(), "Transaction numbers") {
		return false
	}
	if s.noTxn.CompareAndSwap(false, true) {
		logger.Warn("mongo server does not support transactions; review counters fall back to recounting",
			"hint", "set MONGO_TRANSACTIONS=false or use a replica set")
	}
	return true
}

func (s *Store) Users() repositories.UserRepository                 { return &userRepo{s} }
func (s *Store) Menu() repositories.MenuRepository                  { return &menuRepo{s} }
func (s *Store) Reviews() repositories.ReviewRepository             { return &reviewRepo{s} }
func (s *Store) MealRequests() repositories.MealRequestRepository   { return &mealRequestRepo{s} }
func (s *Store) UpcomingMeals() repositories.UpcomingMealRepository { return &upcomingRepo{s} }

func (s *Store) Driver() string { return "mongo" }

// Database exposes the underlying database, e.g. for the log sink.
func (s *Store) Database() *mongo.Database { return s.db }

// Migrate creates the lookup indexes. Existing indexes are left alone.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colUsers: {{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		colMenu:         {{Keys: bson.D{{Key: "email", Value: 1}}}},
		colReviews:      {{Keys: bson.D{{Key: "email", Value: 1}}}, {Keys: bson.D{{Key: "id", Value: 1}}}},
		colMealRequests: {{Keys: bson.D{{Key: "email", Value: 1}}}},
	}
	for name, specs := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("mongostore: create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) observe(op string, start time.Time) {
	metrics.ObserveStoreOp("mongo", op, start)
}

// ─── shared helpers ───────────────────────────────────────────────────────────

func idFilter(id models.ID) (bson.M, error) {
	oid, err := id.ObjectID()
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrInvalidID, id)
	}
	return bson.M{"_id": oid}, nil
}

// refFilter matches a reference field stored either as an ObjectID or, for
// documents written by older clients, as its hex string.
func refFilter(field string, id models.ID) bson.M {
	values := bson.A{string(id)}
	if oid, err := id.ObjectID(); err == nil {
		values = append(values, oid)
	}
	return bson.M{field: bson.M{"$in": values}}
}

func findAll[T any](ctx context.Context, s *Store, op, col string, filter any) ([]T, error) {
	defer s.observe(op, time.Now())

	cur, err := s.col(col).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func findOne[T any](ctx context.Context, s *Store, op, col string, filter any) (*T, error) {
	defer s.observe(op, time.Now())

	var out T
	err := s.col(col).FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

func findByID[T any](ctx context.Context, s *Store, op, col string, id models.ID) (*T, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}
	return findOne[T](ctx, s, op, col, filter)
}

func insert(ctx context.Context, s *Store, op, col string, id *models.ID, doc any) (repositories.InsertResult, error) {
	defer s.observe(op, time.Now())

	*id = models.NewID()
	if _, err := s.col(col).InsertOne(ctx, doc); err != nil {
		*id = ""
		return repositories.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return repositories.Inserted(*id), nil
}

func updateByID(ctx context.Context, s *Store, op, col string, id models.ID, update any) (repositories.UpdateResult, error) {
	defer s.observe(op, time.Now())

	filter, err := idFilter(id)
	if err != nil {
		return repositories.UpdateResult{}, err
	}
	res, err := s.col(col).UpdateOne(ctx, filter, update)
	if err != nil {
		return repositories.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return repositories.Updated(res.MatchedCount, res.ModifiedCount), nil
}

func deleteByID(ctx context.Context, s *Store, op, col string, id models.ID) (repositories.DeleteResult, error) {
	defer s.observe(op, time.Now())

	filter, err := idFilter(id)
	if err != nil {
		return repositories.DeleteResult{}, err
	}
	res, err := s.col(col).DeleteOne(ctx, filter)
	if err != nil {
		return repositories.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return repositories.Deleted(res.DeletedCount), nil
}
