package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyp0633/libcalrepeat/internal/config"
	"github.com/cyp0633/libcalrepeat/internal/export"
	"github.com/cyp0633/libcalrepeat/reminder"
	"github.com/cyp0633/libcalrepeat/server"
	authmem "github.com/cyp0633/libcalrepeat/server/auth/memory"
	"github.com/cyp0633/libcalrepeat/storage"
	"github.com/cyp0633/libcalrepeat/storage/memory"
	"github.com/cyp0633/libcalrepeat/storage/sqlite"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the events REST API and send reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, cmd)
		},
	}

	flags := cmd.Flags()
	flags.String("listen", "", "HTTP listen address")
	flags.String("driver", "", "storage driver: memory or sqlite")
	flags.String("db", "", "SQLite database path")
	a.v.BindPFlag("listen", flags.Lookup("listen"))
	a.v.BindPFlag("storage.driver", flags.Lookup("driver"))
	a.v.BindPFlag("storage.path", flags.Lookup("db"))
	return cmd
}

// openStorage returns the configured gateway and a function releasing it.
func (a *app) openStorage() (storage.Storage, func() error, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(a.cfg.Storage.Path, sqlite.WithLogger(a.logger))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return memory.New(), func() error { return nil }, nil
	}
}

func (a *app) serverOptions() ([]server.Option, error) {
	limits, err := a.cfg.EventLimits()
	if err != nil {
		return nil, err
	}
	opts := []server.Option{
		server.WithLogger(a.logger),
		server.WithLimits(limits),
		server.WithLocation(a.loc),
		server.WithFeed(export.FeedOptions{Title: a.cfg.Feed.Title, Link: a.cfg.Feed.Link}),
	}
	if a.cfg.RateLimit.RPS > 0 {
		opts = append(opts, server.WithRateLimit(a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst))
	}
	if auth := a.cfg.Auth; auth != nil {
		users := authmem.New(authmem.WithLogger(a.logger))
		for _, u := range auth.Users {
			if err := users.AddUser(authmem.User{Username: u.Username, Password: u.Password, ReadOnly: u.ReadOnly}); err != nil {
				return nil, fmt.Errorf("auth user %q: %w", u.Username, err)
			}
		}
		opts = append(opts, server.WithAuthenticator(users, auth.Realm))
	}
	return opts, nil
}

func (a *app) serve(ctx context.Context, cmd *cobra.Command) error {
	store, closeStore, err := a.openStorage()
	if err != nil {
		return err
	}
	defer closeStore()

	opts, err := a.serverOptions()
	if err != nil {
		return err
	}
	srv, err := server.New(store, opts...)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.Listen, err)
	}
	httpServer := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("serving events API", "addr", ln.Addr().String(), "storage", a.cfg.Storage.Driver)
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if a.cfg.Reminder.Enabled {
		sink, err := a.sink(cmd.OutOrStdout())
		if err != nil {
			httpServer.Close()
			return err
		}
		sched := reminder.New(store, sink,
			reminder.WithLocation(a.loc),
			reminder.WithSpec(a.cfg.Reminder.Spec),
			reminder.WithLogger(a.logger))
		g.Go(func() error {
			return sched.Start(ctx)
		})
	}

	return g.Wait()
}
