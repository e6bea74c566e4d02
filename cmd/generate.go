package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/poissondisc"
	"github.com/royalcat/kdgeo/point"
	"github.com/royalcat/kdgeo/pointio"
	"github.com/urfave/cli/v3"
)

func generate(ctx *cli.Context) error {
	r, err := newRun(ctx)
	if err != nil {
		return err
	}
	defer r.finish()

	width, height := ctx.Float64("width"), ctx.Float64("height")
	minDistance := ctx.Float64("min-distance")
	if width <= 0 || height <= 0 || minDistance <= 0 {
		return fmt.Errorf("width, height and min-distance must be positive")
	}

	points := samplePoints(width, height, minDistance, ctx.Int("attempts"), int64(ctx.Int("seed")))
	r.log.Info("Points generated", "points", humanize.Comma(int64(len(points))))

	if err := writeOutput(ctx.String("output"), points); err != nil {
		return err
	}
	return r.finish()
}

func writeOutput(out string, points []point.Point[float64]) error {
	if out == "" || out == pointio.Stdin {
		return pointio.Write(stdout, points)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := pointio.Write(f, points); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// samplePoints draws a Poisson-disc sample over [0,width]x[0,height]; no two
// points are closer than minDistance.
func samplePoints(width, height, minDistance float64, attempts int, seed int64) []point.Point[float64] {
	samples := poissondisc.Sample(0, 0, width, height, minDistance, attempts, rand.New(rand.NewSource(seed)))

	points := make([]point.Point[float64], len(samples))
	for i, s := range samples {
		points[i] = point.New(s.X, s.Y)
	}
	return points
}
