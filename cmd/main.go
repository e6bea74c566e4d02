package main

import (
	"log"
	"os"

	_ "net/http/pprof"

	_ "github.com/KimMachineGun/automemlimit"
	"github.com/urfave/cli/v3"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func queryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "query",
		Aliases:  []string{"q"},
		Usage:    "query point, e.g. (1,2)",
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:        "kdgeo",
		Description: "KD-tree point index and convex polygon toolkit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "verbosity",
				Aliases: []string{"v"},
				Usage:   "0-3 or quiet, warning, info, debug",
				Value:   "warning",
			},
			&cli.StringFlag{
				Name:    "delimiter",
				Aliases: []string{"t"},
				Usage:   "separator between a point and its node info",
				Value:   "\t",
			},
			&cli.BoolFlag{
				Name:  "unique",
				Usage: "drop duplicate points before building",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "show a progress bar while reading points",
			},
			&cli.StringFlag{
				Name:      "stats",
				Usage:     "write a runtime report of the build to FILE (- for stdout)",
				TakesFile: true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "dump",
				Usage:     "build a tree and print its nodes in order",
				ArgsUsage: "[FILE]",
				Action:    dump,
			},
			{
				Name:      "nearest",
				Usage:     "print the point closest to the query",
				ArgsUsage: "[FILE]",
				Flags:     []cli.Flag{queryFlag()},
				Action:    nearest,
			},
			{
				Name:      "knn",
				Usage:     "print the k points closest to the query, nearest first",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					queryFlag(),
					&cli.IntFlag{
						Name:  "k",
						Value: 1,
					},
				},
				Action: knearest,
			},
			{
				Name:      "range",
				Usage:     "print the points inside an axis aligned box",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "lo", Required: true},
					&cli.StringFlag{Name: "hi", Required: true},
				},
				Action: boxRange,
			},
			{
				Name:      "radius",
				Usage:     "print the points strictly closer than the radius to the query",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					queryFlag(),
					&cli.Float64Flag{
						Name:     "radius",
						Aliases:  []string{"r"},
						Required: true,
					},
				},
				Action: radius,
			},
			{
				Name:      "search",
				Usage:     "print the query if it is one of the points",
				ArgsUsage: "[FILE]",
				Flags:     []cli.Flag{queryFlag()},
				Action:    search,
			},
			{
				Name:  "contains",
				Usage: "report whether a polygon contains the query point",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "polygon",
						Usage:    "polygon, e.g. [(0,0),(2,0),(1,2)]",
						Required: true,
					},
					queryFlag(),
					&cli.BoolFlag{
						Name:  "convex",
						Usage: "validate the polygon as convex first",
					},
				},
				Action: contains,
			},
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "generate Poisson-disc distributed 2-D points",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Value:     "-",
						TakesFile: true,
					},
					&cli.Float64Flag{Name: "width", Value: 100},
					&cli.Float64Flag{Name: "height", Value: 100},
					&cli.Float64Flag{
						Name:    "min-distance",
						Aliases: []string{"r"},
						Value:   1,
					},
					&cli.IntFlag{
						Name:  "attempts",
						Value: 30,
					},
					&cli.IntFlag{
						Name:  "seed",
						Value: 1,
					},
				},
				Action: generate,
			},
			{
				Name:  "serve",
				Usage: "serve the point index over http",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "points",
						Aliases:   []string{"p"},
						Required:  true,
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      "polygons",
						Usage:     "file of name<TAB>polygon lines served by /v1/contains",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:  "otel-endpoint",
						Usage: "OTLP/HTTP endpoint for metrics, traces and logs",
					},
					&cli.StringFlag{
						Name: "pprof.listen",
					},
				},
				Action: serve,
			},
		},
	}
}
