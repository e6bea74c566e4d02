package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/royalcat/kdgeo/kdtree"
	"github.com/royalcat/kdgeo/polygonset"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const MaxBodySize = 32 * 1000 * 1000 // 32MB

const instrumentation = "github.com/royalcat/kdgeo/server"

// Run serves queries over index until ctx is cancelled. regions may be nil.
func Run(ctx context.Context, address string, index *kdtree.Index[float64], regions *polygonset.Set[string], log *slog.Logger) error {
	s, err := newServer(index, regions, log)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	server := &fasthttp.Server{
		ReadTimeout:        time.Second,
		MaxRequestBodySize: MaxBodySize,
		Handler:            s.router().Handler,
		Logger:             slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "address", address)
		if err := server.ListenAndServe(address); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ListenAndServe(): %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return server.ShutdownWithContext(shutdownCtx)
}

type server struct {
	index   *kdtree.Index[float64]
	regions *polygonset.Set[string]

	log    *slog.Logger
	tracer trace.Tracer

	metricRequests    metric.Int64Counter
	metricResults     metric.Int64Histogram
	metricBatchPoints metric.Int64Counter
}

func newServer(index *kdtree.Index[float64], regions *polygonset.Set[string], log *slog.Logger) (*server, error) {
	meter := otel.Meter(instrumentation)

	metricRequests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	metricResults, err := meter.Int64Histogram("query_results",
		metric.WithDescription("points returned by a single query"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 50, 100, 500, 1000, 10000),
	)
	if err != nil {
		return nil, err
	}
	metricBatchPoints, err := meter.Int64Counter("batch_points_total")
	if err != nil {
		return nil, err
	}

	return &server{
		index:   index,
		regions: regions,

		log:    log.With("component", "server"),
		tracer: otel.Tracer(instrumentation),

		metricRequests:    metricRequests,
		metricResults:     metricResults,
		metricBatchPoints: metricBatchPoints,
	}, nil
}

func (s *server) router() *router.Router {
	r := router.New()
	r.GET("/v1/nearest", s.NearestHandler)
	r.POST("/v1/nearest/batch", s.BatchNearestHandler)
	r.GET("/v1/knn", s.KNearestHandler)
	r.GET("/v1/range", s.RangeHandler)
	r.GET("/v1/radius", s.RadiusHandler)
	r.GET("/v1/search", s.SearchHandler)
	if s.regions != nil {
		r.GET("/v1/contains", s.ContainsHandler)
	}
	r.Handle(http.MethodGet, "/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
	return r
}
