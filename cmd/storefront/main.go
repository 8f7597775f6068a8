package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/app"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
)

const usage = `Usage: storefront [-ephemeral] <command> [options]

Commands:
  login -email E [-password P]     log in (password read from stdin if omitted)
  register -name N -email E [-password P]
  logout
  whoami
  categories
  products -category ID
  search TEXT
  cart [show|add ID [QTY]|remove ID|inc ID|dec ID]
  fav [show|add ID|remove FAVORITE_ID]
  admin add-product -title T -price P -category ID -description D -image FILE
  admin delete-product ID
  serve                            run the local UI bridge
`

func main() {
	ephemeral := flag.Bool("ephemeral", false, "keep the session in memory only")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cfg, app.Deps{Logger: logger, Ephemeral: *ephemeral})
	if err != nil {
		logger.Fatal("init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if cmd == "serve" {
		serve(ctx, cfg, a, logger)
		return
	}

	a.Start(ctx)
	c := &cli{app: a, out: os.Stdout, in: os.Stdin}
	if err := c.run(ctx, cmd, args); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %s\n", c.message(err))
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Config, a *app.App, logger *zap.Logger) {
	a.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.BridgeAddr,
		Handler:           httpapi.NewRouter(httpapi.Deps{Logger: logger, Cfg: cfg, App: a}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("bridge listening", zap.String("addr", cfg.BridgeAddr), zap.String("api", cfg.APIURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
