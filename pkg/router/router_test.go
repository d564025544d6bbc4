package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func header(key, value string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(key, value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupMiddlewareOrder(t *testing.T) {
	r := New()
	g := r.Group("/", header("X-Stage", "auth"))
	g.Delete("/menu/{id}", "menu.destroy", ok, header("X-Stage", "admin"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/menu/abc", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"auth", "admin"}, rec.Header().Values("X-Stage"))
}

func TestMethodsAreDistinct(t *testing.T) {
	r := New()
	r.Patch("/like/{id}", "menu.like", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/like/abc", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNestedGroups(t *testing.T) {
	r := New()
	signedIn := r.Group("/", header("X-Stage", "auth"))
	adminOnly := signedIn.Group("/", header("X-Stage", "admin"))
	adminOnly.Post("/menu", "menu.store", ok)
	signedIn.Get("/users", "users.index", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/menu", nil))
	assert.Equal(t, []string{"auth", "admin"}, rec.Header().Values("X-Stage"))

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, []string{"auth"}, rec.Header().Values("X-Stage"))
}

func TestRoutes(t *testing.T) {
	r := New()
	r.Get("/menu/{id}", "menu.show", ok)
	r.Group("/api").Patch("like/{id}", "menu.like", ok)
	r.Handle("/storage/*", "", http.NotFoundHandler())

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, []RouteInfo{
		{Method: http.MethodGet, Path: "/menu/{id}", Name: "menu.show"},
		{Method: http.MethodPatch, Path: "/api/like/{id}", Name: "menu.like"},
		{Method: "*", Path: "/storage/*"},
	}, routes)
}
