// Command dirsearch starts the directory-watching search service: it
// loads configuration from the environment, builds the inverted index,
// worker pool, and directory watcher, and serves the HTTP API until an
// interrupt or termination signal arrives.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gcbaptista/dirsearch/api"
	"github.com/gcbaptista/dirsearch/config"
	internalErrors "github.com/gcbaptista/dirsearch/internal/errors"
	"github.com/gcbaptista/dirsearch/internal/index"
	"github.com/gcbaptista/dirsearch/internal/indexstats"
	"github.com/gcbaptista/dirsearch/internal/watcher"
	"github.com/gcbaptista/dirsearch/internal/workerpool"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("startup: %v", err)
		return 1
	}

	log.Printf("watching directory: %s", cfg.WatchDir)

	idx := index.New()
	stats := indexstats.New()
	pool := workerpool.New(runtime.NumCPU())
	defer pool.Shutdown()

	coordinator, err := watcher.New(cfg.WatchDir, idx, pool, stats)
	if err != nil {
		log.Printf("startup: failed to create watcher: %v", err)
		return 1
	}
	if err := coordinator.Start(); err != nil {
		log.Printf("startup: failed to start watcher: %v", err)
		return 1
	}
	defer coordinator.Stop()

	router := api.New(idx, stats).Router()

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("listening on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- internalErrors.NewBindError(srv.Addr, err)
			return
		}
		serveErr <- nil
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("shutting down")
	case err := <-serveErr:
		if err != nil {
			log.Printf("startup: %v", err)
			return 1
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
	return 0
}
