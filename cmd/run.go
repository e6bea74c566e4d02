package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/royalcat/kdgeo/internal/logging"
	"github.com/royalcat/kdgeo/internal/stats"
	"github.com/royalcat/kdgeo/kdtree"
	"github.com/royalcat/kdgeo/point"
	"github.com/royalcat/kdgeo/pointio"
	"github.com/urfave/cli/v3"
)

const statsInterval = 100 * time.Millisecond

// stdout is where commands print their results.
var stdout io.Writer = os.Stdout

// run carries the global flags through one command.
type run struct {
	log       *slog.Logger
	level     slog.Level
	delimiter string
	unique    bool
	progress  bool

	statsFile string
	collector *stats.Collector
}

func newRun(ctx *cli.Context) (*run, error) {
	level, err := logging.ParseLevel(ctx.String("verbosity"))
	if err != nil {
		return nil, err
	}

	r := &run{
		log:       logging.New(level, os.Stderr),
		level:     level,
		delimiter: parseDelimiter(ctx.String("delimiter")),
		unique:    ctx.Bool("unique"),
		progress:  ctx.Bool("progress"),
		statsFile: ctx.String("stats"),
	}

	if r.statsFile != "" {
		r.collector, err = stats.NewCollector(statsInterval)
		if err != nil {
			return nil, err
		}
		r.collector.Start()
	}
	return r, nil
}

func (r *run) mark(phase string) {
	if r.collector != nil {
		r.collector.Mark(phase)
	}
}

// finish stops the stats collector and writes its report.
func (r *run) finish() error {
	if r.collector == nil {
		return nil
	}
	report := r.collector.Stop()
	r.collector = nil
	return report.SaveToFile(r.statsFile)
}

func (r *run) readPoints(name string) ([]point.Point[float64], error) {
	defer logging.Step(r.log, "read points")()
	r.mark("read")

	src, err := pointio.Open(name, r.progress)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	points, err := pointio.ReadAll[float64](src, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}

	log := r.log.With("source", src.Name, "points", humanize.Comma(int64(len(points))))
	if src.Size >= 0 {
		log = log.With("size", humanize.IBytes(uint64(src.Size)))
	}
	log.Info("Points read")

	if r.unique {
		r.mark("dedupe")
		before := len(points)
		points = pointio.Dedupe(points)
		r.log.Info("Duplicate points dropped", "dropped", humanize.Comma(int64(before-len(points))))
	}
	return points, nil
}

func (r *run) build(points []point.Point[float64]) (*kdtree.Tree[float64], error) {
	defer logging.Step(r.log, "build tree")()
	r.mark("build")

	tree, err := kdtree.Build(points)
	if err != nil {
		return nil, fmt.Errorf("error building tree: %w", err)
	}
	return tree, nil
}

// loadTree reads the points named by the first argument, stdin when absent, and builds a tree.
func (r *run) loadTree(ctx *cli.Context) (*kdtree.Tree[float64], error) {
	points, err := r.readPoints(ctx.Args().First())
	if err != nil {
		return nil, err
	}
	tree, err := r.build(points)
	if err != nil {
		return nil, err
	}
	r.mark("query")
	return tree, nil
}

// parseDelimiter accepts the escaped forms a shell user would type, such as `\t`.
func parseDelimiter(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	unquoted, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
	if err != nil {
		return s
	}
	return unquoted
}

// queryPoint parses a query flag against the tree dimension.
func queryPoint(tree *kdtree.Tree[float64], s string) (point.Point[float64], error) {
	q, err := point.ParseN[float64](s, tree.Dim())
	if err != nil {
		return point.Point[float64]{}, fmt.Errorf("invalid query point: %w", err)
	}
	return q, nil
}
