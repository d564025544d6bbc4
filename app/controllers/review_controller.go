package controllers

import (
	"github.com/hostelmania/server/app/jobs"
	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/ctx"
	"github.com/hostelmania/server/pkg/response"
)

type ReviewController struct {
	reviews repositories.ReviewRepository
	jobs    Dispatcher
	events  Publisher
}

func NewReviewController(reviews repositories.ReviewRepository, jobs Dispatcher, events Publisher) *ReviewController {
	return &ReviewController{reviews: reviews, jobs: jobs, events: events}
}

func (rc *ReviewController) Index(c *ctx.Context) {
	reviews, err := rc.reviews.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(reviews)
}

func (rc *ReviewController) Mine(c *ctx.Context) {
	reviews, err := rc.reviews.FindByEmail(c.Context(), c.Param("email"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(reviews)
}

// Store saves the review and bumps the menu item's review counter.
func (rc *ReviewController) Store(c *ctx.Context) {
	var body models.Review
	if !c.BindValid(&body) {
		return
	}
	menuID, err := models.ParseID(body.MenuID.String())
	if err != nil {
		c.BadRequest(response.MsgInvalidID)
		return
	}

	review := &models.Review{
		MenuID:   menuID,
		Email:    body.Email,
		Name:     body.Name,
		FoodName: body.FoodName,
		Review:   body.Review,
	}
	res, err := rc.reviews.Create(c.Context(), review)
	if err != nil {
		c.Fail(err)
		return
	}
	rc.events.Fire(EventReviewCreated, review)
	c.OK(res)
}

// UpdateText replaces the text of a review.
func (rc *ReviewController) UpdateText(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		Review string `json:"review"`
	}
	if !c.BindJSON(&body) {
		return
	}
	res, err := rc.reviews.UpdateText(c.Context(), id, body.Review)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(res)
}

// Destroy deletes any review. Admin only.
func (rc *ReviewController) Destroy(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	review, err := rc.reviews.FindByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	rc.delete(c, id, review)
}

// DestroyOwn deletes one of the caller's own reviews.
func (rc *ReviewController) DestroyOwn(c *ctx.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	review, err := rc.reviews.FindByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if review != nil && review.Email != email {
		c.Forbidden()
		return
	}
	rc.delete(c, id, review)
}

// delete removes the review and queues a recount of its menu item's
// counter. review is nil when nothing was stored under id.
func (rc *ReviewController) delete(c *ctx.Context, id models.ID, review *models.Review) {
	res, err := rc.reviews.Delete(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if review != nil && res.DeletedCount > 0 {
		if err := rc.jobs.Dispatch(c.Context(), &jobs.RecountReviews{MenuID: review.MenuID}); err != nil {
			c.Log().Warn("review recount not queued", "menu_id", review.MenuID, "error", err)
		}
	}
	c.OK(res)
}
