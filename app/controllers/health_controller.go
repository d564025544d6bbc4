package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/hostelmania/server/pkg/ctx"
)

const healthTimeout = 2 * time.Second

// Pinger is anything that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports whether the store and the queue backend answer.
type HealthController struct {
	store Pinger
	queue Pinger
}

func NewHealthController(store, queue Pinger) *HealthController {
	return &HealthController{store: store, queue: queue}
}

type healthReply struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Queue  string `json:"queue"`
}

func (h *HealthController) Show(c *ctx.Context) {
	reqCtx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	reply := healthReply{
		Status: "ok",
		Store:  h.ping(c, reqCtx, "store", h.store),
		Queue:  h.ping(c, reqCtx, "queue", h.queue),
	}
	code := http.StatusOK
	if reply.Store != "ok" || reply.Queue != "ok" {
		reply.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, reply)
}

func (h *HealthController) ping(c *ctx.Context, reqCtx context.Context, name string, p Pinger) string {
	if p == nil {
		return "ok"
	}
	if err := p.Ping(reqCtx); err != nil {
		c.Log().Warn("health check failed", "component", name, "error", err)
		return "down"
	}
	return "ok"
}
