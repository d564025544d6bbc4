package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hostelmania/server/app/jobs"
	"github.com/hostelmania/server/app/repositories/sqlstore"
	"github.com/hostelmania/server/app/routes"
	"github.com/hostelmania/server/config"
	"github.com/hostelmania/server/internal/kernel"
	"github.com/hostelmania/server/internal/server"
	"github.com/hostelmania/server/pkg/auth"
	"github.com/hostelmania/server/pkg/database"
	"github.com/hostelmania/server/pkg/event"
	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/queue"
	"github.com/hostelmania/server/pkg/router"
)

// hostelmania serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := server.Boot(ctx)
		if err != nil {
			return err
		}
		defer app.Close(context.Background())

		return app.Serve(ctx)
	},
}

// hostelmania route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := listingRouter()
		if err != nil {
			return err
		}
		return printRoutes(cmd.OutOrStdout(), r.Routes())
	},
}

// listingRouter builds the full route table over a throwaway in-memory
// store, so listing routes needs no database.
func listingRouter() (*router.Router, error) {
	db, err := database.OpenSQL("sqlite", "file::memory:")
	if err != nil {
		return nil, err
	}
	driver := queue.NewMemoryDriver()
	return kernel.New(kernel.Options{
		Deps: routes.Deps{
			Store:                   sqlstore.New(db, "sqlite"),
			Tokens:                  auth.NewTokenService(config.TokenSecret()),
			Jobs:                    queue.NewManager(driver),
			Queue:                   driver,
			Events:                  event.NewBus(),
			MenuUpdateRequiresAdmin: config.MenuUpdateRequiresAdmin(),
		},
	}), nil
}

func printRoutes(out io.Writer, infos []router.RouteInfo) error {
	if len(infos) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}

	// Sort by path then method.
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Path != infos[j].Path {
			return infos[i].Path < infos[j].Path
		}
		return infos[i].Method < infos[j].Method
	})

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}

var queueWorkersFlag int

// hostelmania queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run queue workers without the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if config.QueueDriver() != "redis" {
			return fmt.Errorf("queue:work needs QUEUE_DRIVER=redis; the memory queue only lives inside serve")
		}
		store, err := server.OpenStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		rdb, err := database.ConnectRedis(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			return err
		}
		defer rdb.Close()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}

		q := queue.NewManager(queue.NewRedisDriver(rdb))
		jobs.Register(q, store)
		q.Start(ctx, workers)
		logger.Info("queue workers started", "workers", workers)

		<-ctx.Done()
		q.Wait()
		logger.Info("queue workers stopped")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "number of workers (default QUEUE_WORKERS)")
}
