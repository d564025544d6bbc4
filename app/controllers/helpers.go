// Package controllers maps HTTP requests onto single repository calls and
// writes the repository's answer back as JSON.
package controllers

import (
	"context"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/pkg/ctx"
	"github.com/hostelmania/server/pkg/queue"
	"github.com/hostelmania/server/pkg/response"
)

// Publisher receives domain events such as "menu.created".
type Publisher interface {
	Fire(eventType string, data any)
}

// Dispatcher queues background jobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

// Event types published by the controllers.
const (
	EventMenuCreated          = "menu.created"
	EventMenuDeleted          = "menu.deleted"
	EventReviewCreated        = "review.created"
	EventMealRequestCreated   = "mealrequest.created"
	EventMealRequestDelivered = "mealrequest.delivered"
	EventUpcomingCreated      = "upcoming.created"
	EventUpcomingDeleted      = "upcoming.deleted"
)

// pathID reads the {id} path parameter. It answers 400 and returns false
// when the id is malformed.
func pathID(c *ctx.Context) (models.ID, bool) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.BadRequest(response.MsgInvalidID)
		return "", false
	}
	return id, true
}

// callerEmail returns the verified email of the caller. Routes using it sit
// behind the auth middleware, so a missing identity is answered with 401.
func callerEmail(c *ctx.Context) (string, bool) {
	claims, ok := c.Claims()
	if !ok || claims.Email == "" {
		c.Unauthorized()
		return "", false
	}
	return claims.Email, true
}

type idPayload struct {
	ID models.ID `json:"_id"`
}
