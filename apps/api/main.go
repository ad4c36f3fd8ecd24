package main

import (
	"context"
	"expvar"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/trezcool/placement/apps/api/di"
	echoapi "github.com/trezcool/placement/apps/api/echo"
	"github.com/trezcool/placement/core"
)

func main() {
	c := di.New()

	must(c.Invoke(func(conf *core.Config, logger *zap.Logger, db *sqlx.DB, server *echoapi.Server) {
		// =========================================================================
		// Initialize App

		logger.Info("Application initializing", zap.String("version", conf.Build), zap.String("engine", conf.Database.Engine))

		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("closing database", zap.Error(err))
			}
			_ = logger.Sync()
		}()
		defer logger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
				logger.Error("debug server closed", zap.Error(err))
			}
		}()

		// =========================================================================
		// Start API Service

		go server.Start()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Error("server error", zap.Error(err))

		case sig := <-server.ShutdownSignal():
			logger.Info("Start shutdown...", zap.Stringer("signal", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				logger.Error("could not stop server gracefully", zap.Error(err))

				if err = server.Close(); err != nil {
					logger.Error("could not force stop server", zap.Error(err))
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
