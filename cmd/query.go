package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/royalcat/kdgeo/kdtree"
	"github.com/royalcat/kdgeo/point"
	"github.com/royalcat/kdgeo/pointio"
	"github.com/royalcat/kdgeo/polygon"
	"github.com/urfave/cli/v3"
)

// withTree runs query against the tree built from the command's point file.
func withTree(query func(ctx *cli.Context, tree *kdtree.Tree[float64]) ([]point.Point[float64], error)) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		r, err := newRun(ctx)
		if err != nil {
			return err
		}
		defer r.finish()

		tree, err := r.loadTree(ctx)
		if err != nil {
			return err
		}
		found, err := query(ctx, tree)
		if err != nil {
			return err
		}
		r.log.Debug("Query answered", "results", len(found))

		if err := pointio.Write(stdout, found); err != nil {
			return err
		}
		return r.finish()
	}
}

func dump(ctx *cli.Context) error {
	r, err := newRun(ctx)
	if err != nil {
		return err
	}
	defer r.finish()

	tree, err := r.loadTree(ctx)
	if err != nil {
		return err
	}
	if err := writeDump(stdout, tree, r.delimiter); err != nil {
		return err
	}
	return r.finish()
}

// writeDump prints the nodes in order, each indented by its depth and followed by
// delim, its depth and the size of its subtree.
func writeDump[T point.Number](w io.Writer, tree *kdtree.Tree[T], delim string) error {
	bw := bufio.NewWriter(w)
	for node := range tree.All() {
		bw.WriteString(strings.Repeat(" | ", node.Depth))
		bw.WriteString(tree.Point(node.Index).String())
		bw.WriteString(delim)
		fmt.Fprintf(bw, "[d=%d,n=%d]\n", node.Depth, node.Size)
	}
	return bw.Flush()
}

var nearest = withTree(func(ctx *cli.Context, tree *kdtree.Tree[float64]) ([]point.Point[float64], error) {
	q, err := queryPoint(tree, ctx.String("query"))
	if err != nil {
		return nil, err
	}
	return resolve(tree, tree.Nearest(q)), nil
})

var search = withTree(func(ctx *cli.Context, tree *kdtree.Tree[float64]) ([]point.Point[float64], error) {
	q, err := queryPoint(tree, ctx.String("query"))
	if err != nil {
		return nil, err
	}
	return resolve(tree, tree.Search(q)), nil
})

var knearest = withTree(func(ctx *cli.Context, tree *kdtree.Tree[float64]) ([]point.Point[float64], error) {
	q, err := queryPoint(tree, ctx.String("query"))
	if err != nil {
		return nil, err
	}
	return resolve(tree, tree.KNearest(q, ctx.Int("k"))...), nil
})

var boxRange = withTree(func(ctx *cli.Context, tree *kdtree.Tree[float64]) ([]point.Point[float64], error) {
	lo, err := queryPoint(tree, ctx.String("lo"))
	if err != nil {
		return nil, err
	}
	hi, err := queryPoint(tree, ctx.String("hi"))
	if err != nil {
		return nil, err
	}
	if lo.Dim() != hi.Dim() {
		return nil, fmt.Errorf("box corners %s and %s differ in dimension", lo, hi)
	}
	for i := range lo.Dim() {
		if lo.At(i) > hi.At(i) {
			return nil, fmt.Errorf("box corner %s is above %s on axis %d", lo, hi, i)
		}
	}
	return resolve(tree, tree.Range(lo, hi)...), nil
})

var radius = withTree(func(ctx *cli.Context, tree *kdtree.Tree[float64]) ([]point.Point[float64], error) {
	q, err := queryPoint(tree, ctx.String("query"))
	if err != nil {
		return nil, err
	}
	return resolve(tree, tree.Radius(q, ctx.Float64("radius"))...), nil
})

func resolve(tree *kdtree.Tree[float64], found ...int) []point.Point[float64] {
	out := make([]point.Point[float64], 0, len(found))
	for _, i := range found {
		if i != kdtree.NotFound {
			out = append(out, tree.Point(i))
		}
	}
	return out
}

func contains(ctx *cli.Context) error {
	r, err := newRun(ctx)
	if err != nil {
		return err
	}
	defer r.finish()

	q, err := point.ParseN[float64](ctx.String("query"), 2)
	if err != nil {
		return fmt.Errorf("invalid query point: %w", err)
	}

	var inside bool
	if ctx.Bool("convex") {
		c, err := polygon.Parse[float64](ctx.String("polygon"))
		if err != nil {
			return fmt.Errorf("invalid polygon: %w", err)
		}
		r.log.Debug("Convex polygon validated", "vertices", c.Size())
		inside = c.Contains(q)
	} else {
		ring, err := polygon.ParseRing[float64](ctx.String("polygon"))
		if err != nil {
			return fmt.Errorf("invalid polygon: %w", err)
		}
		for i, v := range ring {
			if v.Dim() != 2 {
				return fmt.Errorf("invalid polygon: vertex %d is %s, expected 2 coordinates", i, v)
			}
		}
		inside = polygon.Contains(ring, q)
	}

	if _, err := fmt.Fprintln(stdout, inside); err != nil {
		return err
	}
	return r.finish()
}
