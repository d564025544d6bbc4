// Package kernel assembles the HTTP handler: global middleware, the
// operational endpoints and the API routes.
package kernel

import (
	"net/http"

	gographql "github.com/graphql-go/graphql"

	"github.com/hostelmania/server/app/routes"
	"github.com/hostelmania/server/pkg/graphql"
	"github.com/hostelmania/server/pkg/metrics"
	"github.com/hostelmania/server/pkg/middleware"
	"github.com/hostelmania/server/pkg/router"
	"github.com/hostelmania/server/pkg/storage"
	"github.com/hostelmania/server/pkg/ws"
)

// Options are everything the kernel mounts. Hub and GraphQL are optional.
type Options struct {
	routes.Deps

	Hub         *ws.Hub
	GraphQL     *gographql.Schema
	CORSOrigins []string
}

// New builds the router. Global middleware, outermost first:
//
//  1. metrics, so latency covers everything below
//  2. recovery
//  3. request id, before anything logs
//  4. logger, which reads the request id
//  5. CORS
func New(o Options) *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(o.CORSOrigins)))

	r.Get("/metrics", "metrics", metrics.Handler())

	if o.Hub != nil {
		r.Get("/ws", "ws", o.Hub.ServeHTTP)
	}
	if o.GraphQL != nil {
		gql := graphql.Handler(*o.GraphQL)
		r.Get("/graphql", "graphql.get", gql)
		r.Post("/graphql", "graphql.post", gql)
	}
	if local, ok := o.Disk.(*storage.LocalDisk); ok {
		r.Handle("/storage/*", "storage", http.StripPrefix("/storage/", local.Handler()))
	}

	routes.RegisterAPI(r, o.Deps)
	return r
}
