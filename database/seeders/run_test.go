package seeders

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelmania/server/app/repositories/sqlstore"
	"github.com/hostelmania/server/pkg/database"
)

func TestRunAll_IsRepeatable(t *testing.T) {
	db, err := database.OpenSQL("sqlite", "file::memory:")
	require.NoError(t, err)
	store := sqlstore.New(db, "sqlite")
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	defer store.Close(ctx)

	var out bytes.Buffer
	require.NoError(t, RunAll(ctx, store, &out))
	require.NoError(t, RunAll(ctx, store, &out))
	assert.Contains(t, out.String(), "Running seeder: menu")

	admin, err := store.Users().FindByEmail(ctx, DemoAdminEmail)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	menu, err := store.Menu().All(ctx)
	require.NoError(t, err)
	assert.Len(t, menu, len(demoMenu))

	upcoming, err := store.UpcomingMeals().All(ctx)
	require.NoError(t, err)
	assert.Len(t, upcoming, len(demoUpcoming))
}
