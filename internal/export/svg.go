// Package export renders stored trajectories as standalone SVG documents.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/dopri/internal/analysis"
	"github.com/san-kum/dopri/internal/dynamo"
)

const background = "#0a0a0a"

// Series is one polyline of a plot.
type Series struct {
	Name   string
	Stroke string
	Points []analysis.Point
}

var palette = []string{"#00ff00", "#00d7ff", "#ffd700", "#ff5fd7", "#ff8700", "#af87ff"}

type frame struct {
	minX, maxX, minY, maxY float64
	width, height          int
}

func newFrame(series []Series, width, height int) frame {
	f := frame{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1), width, height}
	for _, s := range series {
		for _, p := range s.Points {
			f.minX = math.Min(f.minX, p.X)
			f.maxX = math.Max(f.maxX, p.X)
			f.minY = math.Min(f.minY, p.Y)
			f.maxY = math.Max(f.maxY, p.Y)
		}
	}

	rangeX, rangeY := f.maxX-f.minX, f.maxY-f.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	f.minX -= rangeX * 0.1
	f.maxX += rangeX * 0.1
	f.minY -= rangeY * 0.1
	f.maxY += rangeY * 0.1
	return f
}

func (f frame) project(p analysis.Point) (float64, float64) {
	x := (p.X - f.minX) / (f.maxX - f.minX) * float64(f.width)
	y := float64(f.height) - (p.Y-f.minY)/(f.maxY-f.minY)*float64(f.height)
	return x, y
}

// WriteSVG draws every series with at least two points.
func WriteSVG(w io.Writer, series []Series, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: svg size %dx%d", dynamo.ErrParameterBounds, width, height)
	}
	f := newFrame(series, width, height)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for i, s := range series {
		if len(s.Points) < 2 {
			continue
		}
		stroke := s.Stroke
		if stroke == "" {
			stroke = palette[i%len(palette)]
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5"`, stroke)
		if s.Name != "" {
			fmt.Fprintf(&sb, ` data-name="%s"`, s.Name)
		}
		sb.WriteString(` d="`)
		for j, p := range s.Points {
			x, y := f.project(p)
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// TimeSeries builds one series per state component against time.
func TimeSeries(times []float64, states []dynamo.State) []Series {
	if len(states) == 0 {
		return nil
	}
	series := make([]Series, len(states[0]))
	for i := range series {
		series[i].Name = fmt.Sprintf("y%d", i)
		series[i].Points = make([]analysis.Point, len(states))
		for j, y := range states {
			series[i].Points[j] = analysis.Point{X: times[j], Y: y[i]}
		}
	}
	return series
}

// Phase builds a single series from a phase portrait.
func Phase(p *analysis.PhasePortrait2D) []Series {
	return []Series{{
		Name:   fmt.Sprintf("y%d-y%d", p.XIndex, p.YIndex),
		Points: p.Points,
	}}
}
