package controllers

import (
	"net/http"

	"github.com/hostelmania/server/pkg/ctx"
)

// Home answers GET / so uptime checks have something to hit.
func Home(c *ctx.Context) {
	c.String(http.StatusOK, "Hostel Mania Server is Working...")
}
