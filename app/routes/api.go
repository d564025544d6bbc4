// Package routes declares the HTTP API.
package routes

import (
	"context"

	"github.com/hostelmania/server/app/controllers"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/auth"
	"github.com/hostelmania/server/pkg/ctx"
	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/middleware"
	"github.com/hostelmania/server/pkg/queue"
	"github.com/hostelmania/server/pkg/rbac"
	"github.com/hostelmania/server/pkg/router"
	"github.com/hostelmania/server/pkg/storage"
)

// Deps are the process-wide collaborators the handlers share.
type Deps struct {
	Store  repositories.Store
	Tokens *auth.TokenService
	Jobs   controllers.Dispatcher
	Queue  queue.Driver
	Events controllers.Publisher
	Disk   storage.Disk

	// MenuUpdateRequiresAdmin gates PATCH /menu/{id} behind Auth+Admin.
	MenuUpdateRequiresAdmin bool
}

// RoleLookup reads a user's current role from the store. An unknown email
// has no role.
func RoleLookup(users repositories.UserRepository) rbac.RoleFunc {
	return func(ctx context.Context, email string) (string, error) {
		u, err := users.FindByEmail(ctx, email)
		if err != nil || u == nil {
			return "", err
		}
		return u.Role, nil
	}
}

func RegisterAPI(r *router.Router, d Deps) {
	authC := controllers.NewAuthController(d.Tokens)
	users := controllers.NewUserController(d.Store.Users())
	menu := controllers.NewMenuController(d.Store.Menu(), d.Events)
	reviews := controllers.NewReviewController(d.Store.Reviews(), d.Jobs, d.Events)
	requests := controllers.NewMealRequestController(d.Store.MealRequests(), d.Events)
	upcoming := controllers.NewUpcomingMealController(d.Store.UpcomingMeals(), d.Events)
	health := controllers.NewHealthController(d.Store, d.Queue)

	signedIn := r.Group("/", middleware.Auth(d.Tokens))
	adminOnly := signedIn.Group("/", rbac.RequireAdmin(RoleLookup(d.Store.Users())))

	r.Get("/", "home", ctx.Wrap(controllers.Home))
	r.Get("/health", "health", ctx.Wrap(health.Show))
	r.Post("/jwt", "auth.token", ctx.Wrap(authC.Token))

	signedIn.Get("/users", "users.index", ctx.Wrap(users.Index))
	r.Get("/users/{email}", "users.show", ctx.Wrap(users.Show))
	r.Post("/users", "users.store", ctx.Wrap(users.Store))
	signedIn.Get("/users/admin/{email}", "users.admin", ctx.Wrap(users.AdminCheck))
	adminOnly.Patch("/users/admin/{id}", "users.promote", ctx.Wrap(users.Promote))

	r.Get("/menu", "menu.index", ctx.Wrap(menu.Index))
	r.Get("/menu/{id}", "menu.show", ctx.Wrap(menu.Show))
	r.Get("/fooditem/{email}", "menu.by_email", ctx.Wrap(menu.ByEmail))
	adminOnly.Post("/menu", "menu.store", ctx.Wrap(menu.Store))
	if d.MenuUpdateRequiresAdmin {
		adminOnly.Patch("/menu/{id}", "menu.update", ctx.Wrap(menu.Update))
	} else {
		logger.Warn("PATCH /menu/{id} accepts unauthenticated updates; set MENU_UPDATE_REQUIRES_ADMIN=true to require an admin")
		r.Patch("/menu/{id}", "menu.update", ctx.Wrap(menu.Update))
	}
	r.Patch("/like/{id}", "menu.like", ctx.Wrap(menu.Like))
	adminOnly.Delete("/menu/{id}", "menu.destroy", ctx.Wrap(menu.Destroy))

	adminOnly.Get("/reviews", "reviews.index", ctx.Wrap(reviews.Index))
	r.Get("/myreviews/{email}", "reviews.mine", ctx.Wrap(reviews.Mine))
	r.Post("/review", "reviews.store", ctx.Wrap(reviews.Store))
	r.Patch("/myreviews/{id}", "reviews.update", ctx.Wrap(reviews.UpdateText))
	adminOnly.Delete("/review/{id}", "reviews.destroy", ctx.Wrap(reviews.Destroy))
	signedIn.Delete("/myreviews/{id}", "reviews.destroy_own", ctx.Wrap(reviews.DestroyOwn))

	r.Get("/mealrequest", "mealrequests.index", ctx.Wrap(requests.Index))
	r.Get("/requests", "mealrequests.by_email", ctx.Wrap(requests.ByEmail))
	r.Post("/mealrequest", "mealrequests.store", ctx.Wrap(requests.Store))
	adminOnly.Patch("/mealrequest/{id}", "mealrequests.deliver", ctx.Wrap(requests.Deliver))
	signedIn.Delete("/requests/{id}", "mealrequests.destroy_own", ctx.Wrap(requests.DestroyOwn))

	r.Get("/upcomingMeals", "upcoming.index", ctx.Wrap(upcoming.Index))
	adminOnly.Post("/upcomingMeals", "upcoming.store", ctx.Wrap(upcoming.Store))
	adminOnly.Delete("/upcomingMeals/{id}", "upcoming.destroy", ctx.Wrap(upcoming.Destroy))

	if d.Disk != nil {
		images := controllers.NewImageController(d.Disk)
		adminOnly.Post("/images", "images.upload", ctx.Wrap(images.Upload))
	}
}
