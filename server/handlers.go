package server

import (
	"math"
	"net/http"
	"slices"
	"strconv"

	"github.com/mailru/easyjson/jwriter"
	"github.com/royalcat/kdgeo/point"
	"github.com/sourcegraph/conc/iter"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

func (s *server) begin(ctx *fasthttp.RequestCtx, endpoint string) trace.Span {
	s.metricRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
	_, span := s.tracer.Start(ctx, endpoint)
	return span
}

func (s *server) finish(ctx *fasthttp.RequestCtx, span trace.Span, endpoint string, results int) {
	s.metricResults.Record(ctx, int64(results), metric.WithAttributes(attribute.String("endpoint", endpoint)))
	span.SetAttributes(attribute.Int("results", results))
	span.End()
}

// queryPoint reads a point argument with the index dimension.
func (s *server) queryPoint(ctx *fasthttp.RequestCtx, name string) (point.Point[float64], bool) {
	arg := ctx.QueryArgs().Peek(name)
	if len(arg) == 0 {
		badRequest(ctx, "missing parameter "+name)
		return point.Point[float64]{}, false
	}
	p, err := point.ParseN[float64](string(arg), s.index.Dim())
	if err != nil {
		badRequest(ctx, name+": "+err.Error())
		return point.Point[float64]{}, false
	}
	return p, true
}

func (s *server) NearestHandler(ctx *fasthttp.RequestCtx) {
	span := s.begin(ctx, "nearest")

	q, ok := s.queryPoint(ctx, "p")
	if !ok {
		s.finish(ctx, span, "nearest", 0)
		return
	}

	p, ok := s.index.Nearest(q)
	if !ok {
		s.finish(ctx, span, "nearest", 0)
		ctx.Response.SetStatusCode(http.StatusNoContent)
		return
	}
	s.finish(ctx, span, "nearest", 1)

	w := jwriter.Writer{}
	w.RawString(`{"point":`)
	writePoint(&w, p)
	w.RawString(`,"distance":`)
	w.Float64(math.Sqrt(q.SquaredDistance(p)))
	w.RawByte('}')
	respond(ctx, &w)
}

func (s *server) KNearestHandler(ctx *fasthttp.RequestCtx) {
	span := s.begin(ctx, "knn")

	q, ok := s.queryPoint(ctx, "p")
	if !ok {
		s.finish(ctx, span, "knn", 0)
		return
	}
	k, err := strconv.Atoi(string(ctx.QueryArgs().Peek("k")))
	if err != nil {
		s.finish(ctx, span, "knn", 0)
		badRequest(ctx, "k: "+err.Error())
		return
	}

	found := s.index.KNearest(q, k)
	s.finish(ctx, span, "knn", len(found))
	respondPoints(ctx, found)
}

func (s *server) RangeHandler(ctx *fasthttp.RequestCtx) {
	span := s.begin(ctx, "range")

	lo, ok := s.queryPoint(ctx, "lo")
	if !ok {
		s.finish(ctx, span, "range", 0)
		return
	}
	hi, ok := s.queryPoint(ctx, "hi")
	if !ok {
		s.finish(ctx, span, "range", 0)
		return
	}
	for a := range lo.Dim() {
		if lo.At(a) > hi.At(a) {
			s.finish(ctx, span, "range", 0)
			badRequest(ctx, "lo must not exceed hi on axis "+strconv.Itoa(a))
			return
		}
	}

	found := s.index.Range(lo, hi)
	s.finish(ctx, span, "range", len(found))
	respondPoints(ctx, found)
}

func (s *server) RadiusHandler(ctx *fasthttp.RequestCtx) {
	span := s.begin(ctx, "radius")

	q, ok := s.queryPoint(ctx, "p")
	if !ok {
		s.finish(ctx, span, "radius", 0)
		return
	}
	r, err := strconv.ParseFloat(string(ctx.QueryArgs().Peek("r")), 64)
	if err != nil {
		s.finish(ctx, span, "radius", 0)
		badRequest(ctx, "r: "+err.Error())
		return
	}

	found := s.index.Radius(q, r)
	s.finish(ctx, span, "radius", len(found))
	respondPoints(ctx, found)
}

func (s *server) SearchHandler(ctx *fasthttp.RequestCtx) {
	span := s.begin(ctx, "search")

	q, ok := s.queryPoint(ctx, "p")
	if !ok {
		s.finish(ctx, span, "search", 0)
		return
	}

	if !s.index.Contains(q) {
		s.finish(ctx, span, "search", 0)
		ctx.Response.SetStatusCode(http.StatusNoContent)
		return
	}
	s.finish(ctx, span, "search", 1)

	w := jwriter.Writer{}
	w.RawString(`{"point":`)
	writePoint(&w, q)
	w.RawByte('}')
	respond(ctx, &w)
}

func (s *server) ContainsHandler(ctx *fasthttp.RequestCtx) {
	span := s.begin(ctx, "contains")

	arg := ctx.QueryArgs().Peek("p")
	q, err := point.ParseN[float64](string(arg), 2)
	if err != nil {
		s.finish(ctx, span, "contains", 0)
		badRequest(ctx, "p: "+err.Error())
		return
	}

	names := s.regions.QueryAll(q)
	s.finish(ctx, span, "contains", len(names))
	if len(names) == 0 {
		ctx.Response.SetStatusCode(http.StatusNoContent)
		return
	}

	w := jwriter.Writer{}
	w.RawString(`{"regions":[`)
	for i, name := range names {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(name)
	}
	w.RawString(`]}`)
	respond(ctx, &w)
}

// BatchNearestHandler answers one nearest query per point of a `[[x,y,...],...]` body.
// The response holds a point or null for each request point, in request order.
func (s *server) BatchNearestHandler(ctx *fasthttp.RequestCtx) {
	span := s.begin(ctx, "nearest_batch")

	var req []point.Point[float64]
	if err := unmarshalPointsListFast(ctx.Request.Body(), s.index.Dim(), &req); err != nil {
		s.finish(ctx, span, "nearest_batch", 0)
		badRequest(ctx, "failed to parse request: "+err.Error())
		return
	}
	s.metricBatchPoints.Add(ctx, int64(len(req)))

	// repeated points are answered once
	unique, slots := dedupeByHash(req)
	found := iter.Map(unique, func(q *point.Point[float64]) *point.Point[float64] {
		if p, ok := s.index.Nearest(*q); ok {
			return &p
		}
		return nil
	})
	s.finish(ctx, span, "nearest_batch", len(req))

	w := jwriter.Writer{}
	w.RawByte('[')
	for i, slot := range slots {
		if i > 0 {
			w.RawByte(',')
		}
		if p := found[slot]; p != nil {
			writePoint(&w, *p)
		} else {
			w.RawString("null")
		}
	}
	w.RawByte(']')
	respond(ctx, &w)
}

// dedupeByHash returns the distinct points and, for every input point, its position among them.
func dedupeByHash(points []point.Point[float64]) ([]point.Point[float64], []int) {
	unique := make([]point.Point[float64], 0, len(points))
	slots := make([]int, len(points))
	seen := make(map[uint64][]int, len(points))

	for i, p := range points {
		h := p.Hash()
		j := slices.IndexFunc(seen[h], func(u int) bool { return unique[u].Equal(p) })
		if j >= 0 {
			slots[i] = seen[h][j]
			continue
		}
		seen[h] = append(seen[h], len(unique))
		slots[i] = len(unique)
		unique = append(unique, p)
	}
	return unique, slots
}
