package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/response"
)

// Recovery turns a panic in any downstream handler into a 500 so one bad
// request never takes the process down.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.InternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
