package pco

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Field keys used by the point file format.
const (
	KeyNumber = "5"
	KeyCode   = "4"
	KeyX      = "37"
	KeyY      = "38"
	KeyZ      = "39"
)

// maxLineSize bounds a single line; real files stay far below it.
const maxLineSize = 1 << 20

// Parse reads all point records from r.
func Parse(r io.Reader) ([]Point, error) {
	var (
		points []Point
		cur    record
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		key, value, ok := splitLine(sc.Text())
		if !ok {
			continue
		}
		if key == KeyNumber {
			points = cur.flush(points)
			cur.start(value)
			continue
		}
		cur.set(key, value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan points: %w", err)
	}
	return cur.flush(points), nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) ([]Point, error) {
	return Parse(strings.NewReader(s))
}

// ReadFile opens path and parses its points.
func ReadFile(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func splitLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}
	i := strings.IndexByte(line, '=')
	if i <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

// record accumulates fields until the next point-number line.
type record struct {
	number *int
	code   string
	x, y   *float64
	z      *float64
	attrs  []Attribute
}

func (r *record) start(value string) {
	*r = record{}
	if n, err := strconv.Atoi(value); err == nil {
		r.number = &n
	}
}

func (r *record) set(key, value string) {
	r.attrs = append(r.attrs, Attribute{Key: key, Value: value})
	switch key {
	case KeyCode:
		r.code = value
	case KeyX:
		r.x = parseFloat(value)
	case KeyY:
		r.y = parseFloat(value)
	case KeyZ:
		r.z = parseFloat(value)
	}
}

func (r *record) flush(points []Point) []Point {
	defer func() { *r = record{} }()
	if r.number == nil || r.x == nil || r.y == nil {
		return points
	}
	return append(points, Point{
		Number:     *r.number,
		Code:       r.code,
		X:          *r.x,
		Y:          *r.y,
		Z:          r.z,
		Attributes: r.attrs,
	})
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
