package controllers

import (
	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/pkg/ctx"
	"github.com/hostelmania/server/pkg/response"
)

type MealRequestController struct {
	requests repositories.MealRequestRepository
	events   Publisher
}

func NewMealRequestController(requests repositories.MealRequestRepository, events Publisher) *MealRequestController {
	return &MealRequestController{requests: requests, events: events}
}

func (m *MealRequestController) Index(c *ctx.Context) {
	requests, err := m.requests.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(requests)
}

// ByEmail handles GET /requests?email=.
func (m *MealRequestController) ByEmail(c *ctx.Context) {
	email := c.Query("email")
	if email == "" {
		c.BadRequest("email is required")
		return
	}
	requests, err := m.requests.FindByEmail(c.Context(), email)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(requests)
}

// Store records a request with the client's snapshot of the meal. New
// requests always start pending.
func (m *MealRequestController) Store(c *ctx.Context) {
	var body models.MealRequest
	if !c.BindValid(&body) {
		return
	}
	if body.MenuID != "" {
		menuID, err := models.ParseID(body.MenuID.String())
		if err != nil {
			c.BadRequest(response.MsgInvalidID)
			return
		}
		body.MenuID = menuID
	}

	body.ID = ""
	body.Status = models.StatusPending
	res, err := m.requests.Create(c.Context(), &body)
	if err != nil {
		c.Fail(err)
		return
	}
	m.events.Fire(EventMealRequestCreated, &body)
	c.OK(res)
}

// Deliver marks a request delivered. Admin only.
func (m *MealRequestController) Deliver(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := m.requests.SetStatus(c.Context(), id, models.StatusDelivered)
	if err != nil {
		c.Fail(err)
		return
	}
	if res.MatchedCount > 0 {
		m.events.Fire(EventMealRequestDelivered, idPayload{ID: id})
	}
	c.OK(res)
}

// DestroyOwn deletes one of the caller's own requests.
func (m *MealRequestController) DestroyOwn(c *ctx.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, err := m.requests.FindByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	if req != nil && req.Email != email {
		c.Forbidden()
		return
	}
	res, err := m.requests.Delete(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(res)
}
