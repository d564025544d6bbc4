package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelmania/server/app/jobs"
	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/app/repositories/sqlstore"
	"github.com/hostelmania/server/pkg/auth"
	"github.com/hostelmania/server/pkg/database"
	"github.com/hostelmania/server/pkg/queue"
	"github.com/hostelmania/server/pkg/router"
)

type recordedJobs struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (r *recordedJobs) Dispatch(_ context.Context, job queue.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}

type recordedEvents struct {
	mu    sync.Mutex
	types []string
}

func (r *recordedEvents) Fire(eventType string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
}

func (r *recordedEvents) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

type harness struct {
	t       *testing.T
	store   *sqlstore.Store
	tokens  *auth.TokenService
	jobs    *recordedJobs
	events  *recordedEvents
	router  *router.Router
	handler http.Handler
}

func newHarness(t *testing.T, menuNeedsAdmin bool) *harness {
	t.Helper()
	db, err := database.OpenSQL("sqlite", "file::memory:")
	require.NoError(t, err)
	store := sqlstore.New(db, "sqlite")
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	h := &harness{
		t:      t,
		store:  store,
		tokens: auth.NewTokenService("test-secret"),
		jobs:   &recordedJobs{},
		events: &recordedEvents{},
		router: router.New(),
	}
	RegisterAPI(h.router, Deps{
		Store:                   store,
		Tokens:                  h.tokens,
		Jobs:                    h.jobs,
		Queue:                   queue.NewMemoryDriver(),
		Events:                  h.events,
		MenuUpdateRequiresAdmin: menuNeedsAdmin,
	})
	h.handler = h.router.Handler()
	return h
}

func (h *harness) do(method, path, body, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) user(email, role string) (models.ID, string) {
	h.t.Helper()
	ctx := context.Background()
	res, err := h.store.Users().Create(ctx, &models.User{Name: email, Email: email, Role: models.RoleMember})
	require.NoError(h.t, err)
	if role == models.RoleAdmin {
		_, err = h.store.Users().SetRole(ctx, *res.InsertedID, models.RoleAdmin)
		require.NoError(h.t, err)
	}
	token, err := h.tokens.Issue(auth.Identity{Email: email})
	require.NoError(h.t, err)
	return *res.InsertedID, token
}

func (h *harness) menuItem(food string) models.ID {
	h.t.Helper()
	res, err := h.store.Menu().Create(context.Background(), &models.MenuItem{MealDetails: models.MealDetails{
		Name: "Admin", Email: "admin@x.com", FoodName: food, Price: 2,
	}})
	require.NoError(h.t, err)
	return *res.InsertedID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHome(t *testing.T) {
	h := newHarness(t, false)
	rec := h.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hostel Mania Server is Working...", rec.Body.String())
}

func TestJWT(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(http.MethodPost, "/jwt", `{"email":"a@x.com","name":"A"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	claims, err := h.tokens.Verify(body["token"])
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)

	rec = h.do(http.MethodPost, "/jwt", `{"email":"a@x.com","name":"A","photo":"p.png","uid":"u1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	claims, err = h.tokens.Verify(decode[map[string]string](t, rec)["token"])
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{
		Email: "a@x.com",
		Name:  "A",
		Extra: map[string]any{"photo": "p.png", "uid": "u1"},
	}, claims.Identity)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/jwt", `{"name":"A"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/jwt", `{`, "").Code)
}

func TestAdminGuard_IgnoresRoleClaim(t *testing.T) {
	h := newHarness(t, false)
	h.user("m@x.com", models.RoleMember)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "m@x.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	rec := h.do(http.MethodPost, "/jwt", `{"email":"m@x.com","role":"admin"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	issued := decode[map[string]string](t, rec)["token"]

	menu := `{"name":"M","email":"m@x.com","foodname":"Dal","price":3}`
	for _, token := range []string{forged, issued} {
		assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/reviews", "", token).Code)
		rec := h.do(http.MethodPost, "/menu", menu, token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"message":"forbidden access"}`, rec.Body.String())
	}

	items, err := h.store.Menu().All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUsers_CreateIsIdempotent(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(http.MethodPost, "/users", `{"name":"A","email":"a@x.com","role":"admin"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[repositories.InsertResult](t, rec)
	assert.True(t, first.Acknowledged)
	require.NotNil(t, first.InsertedID)

	rec = h.do(http.MethodPost, "/users", `{"name":"A2","email":"a@x.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"user already exists","insertedId":null}`, rec.Body.String())

	u, err := h.store.Users().FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, u.Role)
	assert.Equal(t, "A", u.Name)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/users", `{"name":"nobody"}`, "").Code)
}

func TestUsers_ListAndShow(t *testing.T) {
	h := newHarness(t, false)
	_, token := h.user("a@x.com", models.RoleMember)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/users", "", "").Code)

	rec := h.do(http.MethodGet, "/users", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 1)

	rec = h.do(http.MethodGet, "/users/a@x.com", "", "")
	assert.Equal(t, "a@x.com", decode[models.User](t, rec).Email)

	rec = h.do(http.MethodGet, "/users/ghost@x.com", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `null`, rec.Body.String())
}

func TestUsers_AdminCheckIsSelfOnly(t *testing.T) {
	h := newHarness(t, false)
	_, member := h.user("m@x.com", models.RoleMember)
	_, admin := h.user("admin@x.com", models.RoleAdmin)

	assert.JSONEq(t, `{"admin":false}`, h.do(http.MethodGet, "/users/admin/m@x.com", "", member).Body.String())
	assert.JSONEq(t, `{"admin":true}`, h.do(http.MethodGet, "/users/admin/admin@x.com", "", admin).Body.String())

	rec := h.do(http.MethodGet, "/users/admin/admin@x.com", "", member)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"forbidden access"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/users/admin/m@x.com", "", "").Code)
}

func TestUsers_Promote(t *testing.T) {
	h := newHarness(t, false)
	memberID, member := h.user("m@x.com", models.RoleMember)
	_, admin := h.user("admin@x.com", models.RoleAdmin)

	path := "/users/admin/" + memberID.String()
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPatch, path, "", member).Code)

	rec := h.do(http.MethodPatch, path, "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[repositories.UpdateResult](t, rec).MatchedCount)

	// The new role applies to the very next request with the old token.
	assert.Equal(t, http.StatusOK, h.do(http.MethodPatch, path, "", member).Code)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPatch, "/users/admin/xyz", "", admin).Code)
}

func TestAdminGuard_RoleRevokedTakesEffectImmediately(t *testing.T) {
	h := newHarness(t, false)
	adminID, admin := h.user("admin@x.com", models.RoleAdmin)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/reviews", "", admin).Code)

	_, err := h.store.Users().SetRole(context.Background(), adminID, models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/reviews", "", admin).Code)
}

func TestMenu_CRUD(t *testing.T) {
	h := newHarness(t, false)
	_, admin := h.user("admin@x.com", models.RoleAdmin)
	_, member := h.user("m@x.com", models.RoleMember)

	assert.JSONEq(t, `[]`, h.do(http.MethodGet, "/menu", "", "").Body.String())

	body := `{"name":"Admin","email":"admin@x.com","foodname":"Dal","category":"lunch","price":3.5,"time":"13:00"}`
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/menu", body, "").Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/menu", body, member).Code)

	rec := h.do(http.MethodPost, "/menu", body, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	id := *decode[repositories.InsertResult](t, rec).InsertedID
	assert.Contains(t, h.events.seen(), "menu.created")

	item := decode[models.MenuItem](t, h.do(http.MethodGet, "/menu/"+id.String(), "", ""))
	assert.Equal(t, "Dal", item.FoodName)
	assert.EqualValues(t, 3.5, item.Price)

	assert.Len(t, decode[[]models.MenuItem](t, h.do(http.MethodGet, "/fooditem/admin@x.com", "", "")), 1)
	assert.JSONEq(t, `[]`, h.do(http.MethodGet, "/fooditem/other@x.com", "", "").Body.String())

	assert.JSONEq(t, `null`, h.do(http.MethodGet, "/menu/"+models.NewID().String(), "", "").Body.String())

	rec = h.do(http.MethodGet, "/menu/not-an-id", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"invalid id"}`, rec.Body.String())

	rec = h.do(http.MethodDelete, "/menu/"+id.String(), "", admin)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())
	assert.Contains(t, h.events.seen(), "menu.deleted")

	rec = h.do(http.MethodDelete, "/menu/"+id.String(), "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":0}`, rec.Body.String())
}

func TestMenu_UpdateReplacesAllFields(t *testing.T) {
	h := newHarness(t, false)
	id := h.menuItem("Dal")

	rec := h.do(http.MethodPatch, "/menu/"+id.String(), `{"foodname":"Rajma","unknown":"ignored"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"acknowledged":true,"matchedCount":1,"modifiedCount":1,"upsertedId":null,"upsertedCount":0}`,
		rec.Body.String())

	item, err := h.store.Menu().FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Rajma", item.FoodName)
	assert.Empty(t, item.Email)
	assert.Zero(t, item.Price)
}

func TestMenu_AcceptsNumericStrings(t *testing.T) {
	h := newHarness(t, false)
	_, admin := h.user("admin@x.com", models.RoleAdmin)

	rec := h.do(http.MethodPost, "/menu", `{"email":"admin@x.com","foodname":"Dal","price":"12"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := *decode[repositories.InsertResult](t, rec).InsertedID

	rec = h.do(http.MethodPatch, "/menu/"+id.String(), `{"foodname":"Dal","price":"7.25","like":"3"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	item := decode[models.MenuItem](t, h.do(http.MethodGet, "/menu/"+id.String(), "", ""))
	assert.EqualValues(t, 7.25, item.Price)
	assert.EqualValues(t, 3, item.Like)

	rec = h.do(http.MethodPost, "/upcomingMeals", `{"foodname":"Biryani","price":"5"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	meals := decode[[]models.UpcomingMeal](t, h.do(http.MethodGet, "/upcomingMeals", "", ""))
	require.Len(t, meals, 1)
	assert.EqualValues(t, 5, meals[0].Price)

	rec = h.do(http.MethodPost, "/menu", `{"foodname":"Dal","price":"cheap"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMenu_UpdateCanRequireAdmin(t *testing.T) {
	h := newHarness(t, true)
	id := h.menuItem("Dal")
	_, admin := h.user("admin@x.com", models.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPatch, "/menu/"+id.String(), `{"foodname":"X"}`, "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodPatch, "/menu/"+id.String(), `{"foodname":"X"}`, admin).Code)
}

func TestMenu_ConcurrentLikes(t *testing.T) {
	h := newHarness(t, false)
	id := h.menuItem("Dal")

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPatch, "/like/"+id.String(), nil)
			h.handler.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	item, err := h.store.Menu().FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.EqualValues(t, n, item.Like)
}

func TestReviews_CreateBumpsCounter(t *testing.T) {
	h := newHarness(t, false)
	id := h.menuItem("Dal")

	rec := h.do(http.MethodPost, "/review", `{"id":"bogus","email":"m@x.com","review":"nice"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := fmt.Sprintf(`{"id":%q,"email":"m@x.com","name":"M","foodname":"Dal","review":"nice"}`, id)
	rec = h.do(http.MethodPost, "/review", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decode[repositories.InsertResult](t, rec).InsertedID)
	assert.Contains(t, h.events.seen(), "review.created")

	item, err := h.store.Menu().FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, item.Reviews)

	mine := decode[[]models.Review](t, h.do(http.MethodGet, "/myreviews/m@x.com", "", ""))
	require.Len(t, mine, 1)
	assert.Equal(t, id, mine[0].MenuID)
}

func TestReviews_UpdateAndDelete(t *testing.T) {
	h := newHarness(t, false)
	menuID := h.menuItem("Dal")
	_, owner := h.user("m@x.com", models.RoleMember)
	_, other := h.user("o@x.com", models.RoleMember)
	_, admin := h.user("admin@x.com", models.RoleAdmin)

	create := func() models.ID {
		res, err := h.store.Reviews().Create(context.Background(), &models.Review{MenuID: menuID, Email: "m@x.com", Review: "ok"})
		require.NoError(t, err)
		return *res.InsertedID
	}
	first := create()

	rec := h.do(http.MethodPatch, "/myreviews/"+first.String(), `{"review":"great"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	r, err := h.store.Reviews().FindByID(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, "great", r.Review)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodDelete, "/myreviews/"+first.String(), "", "").Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/myreviews/"+first.String(), "", other).Code)

	rec = h.do(http.MethodDelete, "/myreviews/"+first.String(), "", owner)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())

	rec = h.do(http.MethodDelete, "/myreviews/"+first.String(), "", owner)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":0}`, rec.Body.String())

	second := create()
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/review/"+second.String(), "", owner).Code)
	rec = h.do(http.MethodDelete, "/review/"+second.String(), "", admin)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())

	h.jobs.mu.Lock()
	defer h.jobs.mu.Unlock()
	require.Len(t, h.jobs.jobs, 2)
	for _, j := range h.jobs.jobs {
		recount, ok := j.(*jobs.RecountReviews)
		require.True(t, ok)
		assert.Equal(t, menuID, recount.MenuID)
	}
}

func TestReviews_ListIsAdminOnly(t *testing.T) {
	h := newHarness(t, false)
	_, member := h.user("m@x.com", models.RoleMember)
	_, admin := h.user("admin@x.com", models.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/reviews", "", "").Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/reviews", "", member).Code)

	rec := h.do(http.MethodGet, "/reviews", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMealRequests(t *testing.T) {
	h := newHarness(t, false)
	menuID := h.menuItem("Dal")
	_, owner := h.user("m@x.com", models.RoleMember)
	_, other := h.user("o@x.com", models.RoleMember)
	_, admin := h.user("admin@x.com", models.RoleAdmin)

	rec := h.do(http.MethodGet, "/requests", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := fmt.Sprintf(`{"id":%q,"email":"m@x.com","name":"M","foodname":"Dal",`+
		`"category":"lunch","price":"4.5","image":"dal.png","time":"13:00","like":2,"status":"delivered"}`, menuID)
	rec = h.do(http.MethodPost, "/mealrequest", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	id := *decode[repositories.InsertResult](t, rec).InsertedID

	mine := decode[[]models.MealRequest](t, h.do(http.MethodGet, "/requests?email=m@x.com", "", ""))
	require.Len(t, mine, 1)
	assert.Equal(t, models.StatusPending, mine[0].Status)
	assert.Equal(t, menuID, mine[0].MenuID)
	assert.EqualValues(t, 4.5, mine[0].Price)
	assert.Equal(t, "dal.png", mine[0].Image)
	assert.Equal(t, "lunch", mine[0].Category)
	assert.Equal(t, "13:00", mine[0].Time)
	assert.EqualValues(t, 2, mine[0].Like)

	rec = h.do(http.MethodPost, "/mealrequest", `{"id":"not-an-id","email":"m@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"invalid id"}`, rec.Body.String())
	assert.Len(t, decode[[]models.MealRequest](t, h.do(http.MethodGet, "/mealrequest", "", "")), 1)

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPatch, "/mealrequest/"+id.String(), "", owner).Code)
	rec = h.do(http.MethodPatch, "/mealrequest/"+id.String(), "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, h.events.seen(), "mealrequest.delivered")

	req, err := h.store.MealRequests().FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, req.Status)

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/requests/"+id.String(), "", other).Code)
	rec = h.do(http.MethodDelete, "/requests/"+id.String(), "", owner)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())
}

func TestUpcomingMeals(t *testing.T) {
	h := newHarness(t, false)
	_, admin := h.user("admin@x.com", models.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/upcomingMeals", `{"foodname":"Biryani"}`, "").Code)

	rec := h.do(http.MethodPost, "/upcomingMeals", `{"foodname":"Biryani","price":5}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	id := *decode[repositories.InsertResult](t, rec).InsertedID

	meals := decode[[]models.UpcomingMeal](t, h.do(http.MethodGet, "/upcomingMeals", "", ""))
	require.Len(t, meals, 1)
	assert.Equal(t, "Biryani", meals[0].FoodName)

	rec = h.do(http.MethodDelete, "/upcomingMeals/"+id.String(), "", admin)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())
	assert.Equal(t, []string{"upcoming.created", "upcoming.deleted"}, h.events.seen())
}

func TestHealth(t *testing.T) {
	h := newHarness(t, false)
	rec := h.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","store":"ok","queue":"ok"}`, rec.Body.String())
}

func TestRouteTable(t *testing.T) {
	h := newHarness(t, false)

	byName := make(map[string]router.RouteInfo)
	for _, ri := range h.router.Routes() {
		byName[ri.Name] = ri
	}
	assert.Equal(t, router.RouteInfo{Method: http.MethodPatch, Path: "/like/{id}", Name: "menu.like"}, byName["menu.like"])
	assert.Equal(t, router.RouteInfo{Method: http.MethodDelete, Path: "/requests/{id}", Name: "mealrequests.destroy_own"}, byName["mealrequests.destroy_own"])
	assert.Equal(t, router.RouteInfo{Method: http.MethodPatch, Path: "/users/admin/{id}", Name: "users.promote"}, byName["users.promote"])

	_, ok := byName["images.upload"]
	assert.False(t, ok)
}

func TestReviewDelete_FullQueueStillAnswers(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	driver := queue.NewMemoryDriverSize(1)
	require.NoError(t, driver.Push(ctx, []byte(`{}`)))
	r := router.New()
	RegisterAPI(r, Deps{
		Store:  h.store,
		Tokens: h.tokens,
		Jobs:   queue.NewManager(driver),
		Queue:  driver,
		Events: h.events,
	})
	h.handler = r.Handler()

	menuID := h.menuItem("Dal")
	_, admin := h.user("admin@x.com", models.RoleAdmin)
	res, err := h.store.Reviews().Create(ctx, &models.Review{MenuID: menuID, Email: "m@x.com", Review: "ok"})
	require.NoError(t, err)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		req := httptest.NewRequest(http.MethodDelete, "/review/"+res.InsertedID.String(), nil)
		req.Header.Set("Authorization", "Bearer "+admin)
		rec := httptest.NewRecorder()
		h.handler.ServeHTTP(rec, req)
		done <- rec
	}()

	select {
	case rec := <-done:
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())
	case <-time.After(2 * time.Second):
		t.Fatal("review delete blocked on a full queue")
	}
}
