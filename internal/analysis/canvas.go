package analysis

import (
	"math"
	"strings"
)

type bounds struct {
	minX, maxX, minY, maxY float64
}

func boundsOf(points []Point) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, p := range points {
		b.minX = math.Min(b.minX, p.X)
		b.maxX = math.Max(b.maxX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	return b
}

// pad widens each axis by 10% and gives degenerate axes unit length.
func (b bounds) pad() bounds {
	rx, ry := b.maxX-b.minX, b.maxY-b.minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	return bounds{b.minX - rx*0.1, b.maxX + rx*0.1, b.minY - ry*0.1, b.maxY + ry*0.1}
}

type canvas struct {
	cells         [][]rune
	width, height int
	b             bounds
}

func newCanvas(width, height int, b bounds) *canvas {
	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", width))
	}
	return &canvas{cells: cells, width: width, height: height, b: b}
}

func (c *canvas) col(x float64) int {
	return int((x - c.b.minX) / (c.b.maxX - c.b.minX) * float64(c.width-1))
}

func (c *canvas) row(y float64) int {
	return c.height - 1 - int((y-c.b.minY)/(c.b.maxY-c.b.minY)*float64(c.height-1))
}

func (c *canvas) set(row, col int, r rune, overwrite bool) {
	if row < 0 || row >= c.height || col < 0 || col >= c.width {
		return
	}
	if overwrite || c.cells[row][col] == ' ' {
		c.cells[row][col] = r
	}
}

// axes draws x = 0 and y = 0 where they cross the visible area.
func (c *canvas) axes() {
	if c.b.minX <= 0 && c.b.maxX >= 0 {
		col := c.col(0)
		for row := 0; row < c.height; row++ {
			c.set(row, col, '│', false)
		}
	}
	if c.b.minY <= 0 && c.b.maxY >= 0 {
		row := c.row(0)
		for col := 0; col < c.width; col++ {
			c.set(row, col, '─', false)
		}
	}
}

func (c *canvas) String() string {
	var sb strings.Builder
	for _, row := range c.cells {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func scatter(points []Point, width, height int, withAxes bool) string {
	if width <= 1 || height <= 1 {
		return ""
	}
	c := newCanvas(width, height, boundsOf(points).pad())
	for _, p := range points {
		c.set(c.row(p.Y), c.col(p.X), '•', true)
	}
	if withAxes {
		c.axes()
	}
	return c.String()
}
