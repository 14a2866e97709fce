package tui

// canvas is a terminal grid where every cell holds a 2×4 braille dot
// pattern or a text rune. Text wins over dots in the same cell.
type canvas struct {
	w, h int // cells
	dots [][]uint8
	text [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, dots: make([][]uint8, h), text: make([][]rune, h)}
	for i := 0; i < h; i++ {
		c.dots[i] = make([]uint8, w)
		c.text[i] = make([]rune, w)
	}
	return c
}

// dotBits maps a sub-cell position (column, row) to its braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// set lights the micro-pixel at (mx, my). Pixels off the grid are dropped.
func (c *canvas) set(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.dots[cy][cx] |= dotBits[mx%2][my%4]
}

// line draws a Bresenham segment between two micro-pixels.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// disc fills a small square marker of radius r around a micro-pixel.
func (c *canvas) disc(mx, my, r int) {
	for y := my - r; y <= my+r; y++ {
		for x := mx - r; x <= mx+r; x++ {
			c.set(x, y)
		}
	}
}

// write places s starting at cell (cx, cy), clipping at the edges.
func (c *canvas) write(cx, cy int, s string) {
	if cy < 0 || cy >= c.h {
		return
	}
	for _, r := range s {
		if cx >= 0 && cx < c.w {
			c.text[cy][cx] = r
		}
		cx++
	}
}

func (c *canvas) lines() []string {
	out := make([]string, c.h)
	row := make([]rune, c.w)
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			switch {
			case c.text[y][x] != 0:
				row[x] = c.text[y][x]
			case c.dots[y][x] != 0:
				row[x] = rune(0x2800 + int(c.dots[y][x]))
			default:
				row[x] = ' '
			}
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
