package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/http/api"
	service "github.com/hsh723/rocket-sourcer-sub001/internal/app"
	"github.com/hsh723/rocket-sourcer-sub001/internal/config"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SOURCER_ADDR", ":8080")
			_ = os.Setenv("SOURCER_CACHE_TTL_MINUTES", "30")
			defer func() {
				_ = os.Unsetenv("SOURCER_ADDR")
				_ = os.Unsetenv("SOURCER_CACHE_TTL_MINUTES")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CacheTTLMinutes, convey.ShouldEqual, 30)
			})
		})

		convey.Convey("When testing service creation", func() {
			svc := service.New(nil)
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then the HTTP server should be creatable over it", func() {
				server := api.NewServer(svc)
				convey.So(server, convey.ShouldNotBeNil)

				mux := http.NewServeMux()
				convey.So(func() { server.Register(context.Background(), mux) }, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When running the system metrics updater briefly", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When the listen address is empty", func() {
			_ = os.Setenv("SOURCER_ADDR", "")
			defer func() { _ = os.Unsetenv("SOURCER_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
