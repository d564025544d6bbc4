package controllers

import (
	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/ctx"
)

type UpcomingMealController struct {
	meals  repositories.UpcomingMealRepository
	events Publisher
}

func NewUpcomingMealController(meals repositories.UpcomingMealRepository, events Publisher) *UpcomingMealController {
	return &UpcomingMealController{meals: meals, events: events}
}

func (u *UpcomingMealController) Index(c *ctx.Context) {
	meals, err := u.meals.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(meals)
}

func (u *UpcomingMealController) Store(c *ctx.Context) {
	var body models.MealDetails
	if !c.BindJSON(&body) {
		return
	}
	meal := &models.UpcomingMeal{MealDetails: body}
	res, err := u.meals.Create(c.Context(), meal)
	if err != nil {
		c.Fail(err)
		return
	}
	u.events.Fire(EventUpcomingCreated, meal)
	c.OK(res)
}

func (u *UpcomingMealController) Destroy(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := u.meals.Delete(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if res.DeletedCount > 0 {
		u.events.Fire(EventUpcomingDeleted, idPayload{ID: id})
	}
	c.OK(res)
}
