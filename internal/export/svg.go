package export

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulersim/internal/dynamo"
)

const (
	DefaultStroke = "#00ff88"
	background    = "#0a0a0a"
	padding       = 0.1
)

// TrajectorySVG draws y(t) as a single polyline scaled to width x height.
// A trajectory with fewer than two points produces no output.
func TrajectorySVG(w io.Writer, tr *dynamo.Trajectory, width, height int, stroke string) error {
	if width <= 0 || height <= 0 {
		return dynamo.InvalidParameter("svg size must be positive, got %dx%d", width, height)
	}
	if tr == nil || tr.Len() < 2 {
		return nil
	}
	if stroke == "" {
		stroke = DefaultStroke
	}

	ts, ys := tr.Times(), tr.Values()
	minX, maxX := pad(floats.Min(ts), floats.Max(ts))
	minY, maxY := pad(floats.Min(ys), floats.Max(ys))
	rangeX, rangeY := maxX-minX, maxY-minY

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, stroke)

	for i, p := range tr.Points {
		x := (p.T - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(bw, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
		}
	}

	bw.WriteString("\"/>\n</svg>\n")
	return bw.Flush()
}

// pad widens [lo, hi] by a fixed fraction on both sides; a flat range
// becomes one unit wide.
func pad(lo, hi float64) (float64, float64) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - r*padding, hi + r*padding
}
