package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/royalcat/kdgeo/internal/logging"
	"github.com/royalcat/kdgeo/internal/telemetry"
	"github.com/royalcat/kdgeo/kdtree"
	"github.com/royalcat/kdgeo/polygonset"
	"github.com/royalcat/kdgeo/server"
	"github.com/urfave/cli/v3"
)

func serve(ctx *cli.Context) error {
	r, err := newRun(ctx)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, log, err := telemetry.Setup(sigCtx, "kdgeo", ctx.String("otel-endpoint"), logging.NewHandler(r.level, os.Stderr))
	if err != nil {
		return fmt.Errorf("error setting up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", "error", err)
		}
	}()
	r.log = log

	if pprofListen := ctx.String("pprof.listen"); pprofListen != "" {
		go func() {
			log.Info("Starting pprof server", "address", pprofListen)
			err := http.ListenAndServe(pprofListen, nil)
			if err != nil {
				log.Error("Error starting pprof server", "error", err)
			}
		}()
	}

	points, err := r.readPoints(ctx.String("points"))
	if err != nil {
		return err
	}
	index, err := kdtree.NewIndex(points, kdtree.WithLogger(log))
	if err != nil {
		return err
	}

	var regions *polygonset.Set[string]
	if name := ctx.String("polygons"); name != "" {
		regions, err = loadRegions(name)
		if err != nil {
			return err
		}
		log.Info("Regions loaded", "regions", regions.Len())
	}

	if err := r.finish(); err != nil {
		return err
	}
	return server.Run(sigCtx, ctx.String("listen"), index, regions, log)
}

func loadRegions(name string) (*polygonset.Set[string], error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	regions, err := polygonset.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return regions, nil
}
