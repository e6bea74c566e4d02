package server

import (
	"net/http"

	"github.com/mailru/easyjson/jwriter"
	"github.com/royalcat/kdgeo/point"
	"github.com/valyala/fasthttp"
)

func writePoint(w *jwriter.Writer, p point.Point[float64]) {
	w.RawByte('[')
	for i := range p.Dim() {
		if i > 0 {
			w.RawByte(',')
		}
		w.Float64(p.At(i))
	}
	w.RawByte(']')
}

func respondPoints(ctx *fasthttp.RequestCtx, points []point.Point[float64]) {
	w := jwriter.Writer{}
	w.RawString(`{"count":`)
	w.Int(len(points))
	w.RawString(`,"points":[`)
	for i, p := range points {
		if i > 0 {
			w.RawByte(',')
		}
		writePoint(&w, p)
	}
	w.RawString(`]}`)
	respond(ctx, &w)
}

func respond(ctx *fasthttp.RequestCtx, w *jwriter.Writer) {
	data, err := w.BuildBytes()
	if err != nil {
		ctx.Response.SetStatusCode(http.StatusInternalServerError)
		ctx.Response.SetBodyString("failed to marshal response")
		return
	}

	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.SetBody(data)
}

func badRequest(ctx *fasthttp.RequestCtx, msg string) {
	ctx.Response.SetStatusCode(http.StatusBadRequest)
	ctx.Response.SetBodyString(msg)
}
