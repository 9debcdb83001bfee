package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/net/http2"

	"github.com/iliyamo/checkin-api/internal/config"
	"github.com/iliyamo/checkin-api/internal/logging"
	"github.com/iliyamo/checkin-api/internal/router"
)

func main() {
	flags := pflag.NewFlagSet("checkin-api", pflag.ExitOnError)
	configFile := flags.String("config", "", "Path to a YAML config file")
	debug := flags.BoolP("debug", "d", false, "Enable debug logging")
	flags.String("port", "", "HTTP port to listen on")
	flags.String("env", "", "Application environment")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.Bool("h2c", false, "Serve HTTP/2 over cleartext")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := serve(cfg, log); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
	log.Info("server stopped")
}

// serve owns every resource that needs releasing, so its deferred cleanup
// runs before main decides the exit code.
func serve(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Cache.Enabled {
		client, err := config.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, response cache disabled")
		} else {
			rdb = client
			defer func() { _ = rdb.Close() }()
		}
	}

	e, err := router.New(cfg, log, rdb)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"env":     cfg.App.Env,
			"h2c":     cfg.Server.H2C,
			"origins": cfg.CORS.AllowedOrigins,
		}).Info("listening")
		serveErr <- start(e, cfg)
	}()

	return run(ctx, e, cfg.Server.ShutdownTimeout, serveErr)
}

// run blocks until the listener fails or ctx is cancelled, then shuts the
// server down gracefully.
func run(ctx context.Context, e *echo.Echo, timeout time.Duration, serveErr <-chan error) error {
	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func start(e *echo.Echo, cfg config.Config) error {
	if cfg.Server.H2C {
		return e.StartH2CServer(cfg.Addr(), &http2.Server{})
	}
	return e.Start(cfg.Addr())
}
