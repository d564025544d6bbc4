// Package ctx gives handlers a single *Context instead of the
// (http.ResponseWriter, *http.Request) pair:
//
//	func (m *MenuController) Show(c *ctx.Context) {
//	    id := c.Param("id")
//	    c.OK(item)
//	}
//
//	router.Get("/menu/{id}", "menu.show", ctx.Wrap(menu.Show))
package ctx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/hostelmania/server/pkg/auth"
	"github.com/hostelmania/server/pkg/bind"
	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/response"
	"github.com/hostelmania/server/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // 0 until a response is written
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter ("/menu/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, or "".
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

func (c *Context) Context() context.Context { return c.R.Context() }

// Claims returns the identity stored by the auth middleware.
func (c *Context) Claims() (*auth.Claims, bool) {
	return auth.FromContext(c.R.Context())
}

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger {
	return logger.WithCtx(c.R.Context())
}

// BindJSON decodes the body into dest. On failure it sends a 400 and
// returns false; the handler should return immediately.
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.R, dest); err != nil {
		c.BadRequest(err.Error())
		return false
	}
	return true
}

// BindValid is BindJSON followed by the `validate` tag checks of dest. The
// first failure is sent as a 400.
func (c *Context) BindValid(dest any) bool {
	if !c.BindJSON(dest) {
		return false
	}
	if errs := validate.Struct(dest); errs != nil {
		c.BadRequest(errs.First())
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// OK writes v with status 200. A nil pointer is written as null.
func (c *Context) OK(v any) {
	c.JSON(http.StatusOK, v)
}

// Error sends {"message": message}.
func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Message{Message: message})
}

func (c *Context) BadRequest(message string) {
	c.Error(http.StatusBadRequest, message)
}

func (c *Context) Unauthorized() {
	c.Error(http.StatusUnauthorized, response.MsgUnauthorized)
}

func (c *Context) Forbidden() {
	c.Error(http.StatusForbidden, response.MsgForbidden)
}

// Fail logs err against the request and sends a generic 500.
func (c *Context) Fail(err error) {
	c.Log().Error("request failed", "method", c.R.Method, "path", c.R.URL.Path, "error", err)
	c.Error(http.StatusInternalServerError, response.MsgInternal)
}

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	fmt.Fprintf(c.W, format, args...)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
