package mongostore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/database"
)

// newTestStore connects to MONGO_TEST_URI and uses a throwaway database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, uri)
	require.NoError(t, err)

	name := fmt.Sprintf("hostelmania_test_%d", time.Now().UnixNano())
	s := New(client, name, os.Getenv("MONGO_TEST_TRANSACTIONS") == "true")
	require.NoError(t, s.Migrate(ctx))

	t.Cleanup(func() {
		_ = s.db.Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestMongo_UserCreateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res, err := s.Users().Create(ctx, &models.User{Email: "a@x.com", Role: models.RoleMember})
	require.NoError(t, err)
	require.NotNil(t, res.InsertedID)

	_, err = s.Users().Create(ctx, &models.User{Email: "a@x.com", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, repositories.ErrUserExists)

	u, err := s.Users().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, *res.InsertedID, u.ID)
	assert.Equal(t, models.RoleMember, u.Role)
}

func TestMongo_LikesAndReviews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res, err := s.Menu().Create(ctx, &models.MenuItem{MealDetails: models.MealDetails{FoodName: "Dal"}})
	require.NoError(t, err)
	id := *res.InsertedID

	const n = 10
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Menu().Like(ctx, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, err = s.Reviews().Create(ctx, &models.Review{MenuID: id, Email: "m@x.com", Review: "good"})
	require.NoError(t, err)

	item, err := s.Menu().FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.EqualValues(t, n, item.Like)
	assert.EqualValues(t, 1, item.Reviews)
}

func TestMongo_MissingDocuments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.Menu().FindByID(ctx, models.NewID())
	require.NoError(t, err)
	assert.Nil(t, item)

	del, err := s.Menu().Delete(ctx, models.NewID())
	require.NoError(t, err)
	assert.EqualValues(t, 0, del.DeletedCount)

	list, err := s.MealRequests().FindByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestIDFilterRejectsMalformedIDs(t *testing.T) {
	_, err := idFilter("not-an-id")
	assert.ErrorIs(t, err, repositories.ErrInvalidID)
}

func TestRefFilterMatchesBothEncodings(t *testing.T) {
	id := models.NewID()
	f := refFilter("id", id)

	in := f["id"].(bson.M)["$in"]
	assert.Len(t, in, 2)
}

func TestDisableTransactionsOnStandalone(t *testing.T) {
	s := &Store{transactions: true}
	require.True(t, s.useTransactions())

	assert.False(t, s.disableTransactions(nil))
	assert.False(t, s.disableTransactions(mongo.CommandError{Code: 11000, Message: "E11000 duplicate key"}))
	assert.True(t, s.useTransactions())

	standalone := mongo.CommandError{
		Code:    20,
		Message: "Transaction numbers are only allowed on a replica set member or mongos",
		Name:    "IllegalOperation",
	}
	assert.True(t, s.disableTransactions(fmt.Errorf("insert: %w", standalone)))
	assert.False(t, s.useTransactions())

	assert.True(t, s.disableTransactions(standalone), "stays detectable after the switch")
	assert.False(t, (&Store{transactions: false}).useTransactions())
}
