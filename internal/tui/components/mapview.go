package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/rendis/pinpoint/internal/model"
	"github.com/rendis/pinpoint/internal/tui/styles"
)

const (
	// PinGlyph marks the resolved address on the map.
	PinGlyph = "●"
	// MarkerTitle heads the marker info popup.
	MarkerTitle = "Result"
)

// MapView renders a region as a braille graticule with at most one pin.
type MapView struct {
	width  int
	height int
	region model.Region
	marker *model.Result
}

func NewMapView(width, height int, region model.Region) MapView {
	return MapView{
		width:  width,
		height: height,
		region: region,
	}
}

func (m *MapView) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *MapView) SetRegion(r model.Region) {
	m.region = r
}

// SetMarker shows r as the pin, or removes the pin when r is nil.
func (m *MapView) SetMarker(r *model.Result) {
	if r == nil {
		m.marker = nil
		return
	}
	cp := *r
	m.marker = &cp
}

func (m MapView) Region() model.Region {
	return m.region
}

func (m MapView) Marker() *model.Result {
	return m.marker
}

// Braille character encoding:
// Each braille char is a 2x4 dot grid.
// Dot positions:  0 3
//
//	1 4
//	2 5
//	6 7
//
// Unicode: 0x2800 + sum of raised dot bits
var brailleDots = [8]rune{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80}

var dotPositions = [8][2]int{
	{0, 0}, {1, 0}, {2, 0}, {0, 1},
	{1, 1}, {2, 1}, {3, 0}, {3, 1},
}

func (m MapView) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	cols := m.width
	rows := m.height
	dotW := cols * 2
	dotH := rows * 4

	blank := strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", cols)+"\n", rows), "\n")

	bound := m.region.Bound()
	latRange := bound.Max.Lat() - bound.Min.Lat()
	lngRange := bound.Max.Lon() - bound.Min.Lon()
	if !representable(latRange, m.region.LatSpan) || !representable(lngRange, m.region.LngSpan) {
		return blank
	}

	// 1° of longitude shrinks with latitude; braille dots are roughly square on screen.
	cosLat := math.Abs(math.Cos(m.region.CenterLat * math.Pi / 180))
	geoAspect := (lngRange * cosLat) / latRange
	if geoAspect <= 0 || math.IsNaN(geoAspect) || math.IsInf(geoAspect, 0) {
		return blank
	}
	dotAspect := float64(dotW) / float64(dotH)

	effectiveW, effectiveH := dotW, dotH
	offsetX, offsetY := 0, 0
	if geoAspect < dotAspect {
		effectiveW = max(int(float64(dotH)*geoAspect), 4)
		offsetX = (dotW - effectiveW) / 2
	} else {
		effectiveH = max(int(float64(dotW)/geoAspect), 4)
		offsetY = (dotH - effectiveH) / 2
	}

	toDot := func(p orb.Point) (int, int) {
		x := offsetX + int(math.Round((p.Lon()-bound.Min.Lon())/lngRange*float64(effectiveW-1)))
		y := offsetY + int(math.Round((bound.Max.Lat()-p.Lat())/latRange*float64(effectiveH-1)))
		return x, y
	}

	grid := make([][]bool, dotH)
	for i := range grid {
		grid[i] = make([]bool, dotW)
	}

	// Frame of the visible region
	corners := []orb.Point{
		bound.Min,
		{bound.Max.Lon(), bound.Min.Lat()},
		bound.Max,
		{bound.Min.Lon(), bound.Max.Lat()},
	}
	for i := range corners {
		x0, y0 := toDot(corners[i])
		x1, y1 := toDot(corners[(i+1)%len(corners)])
		drawLine(grid, x0, y0, x1, y1, dotW, dotH)
	}

	// Graticule
	step := gridStep(math.Max(latRange, lngRange) / 4)
	for _, lat := range gridLines(bound.Min.Lat(), bound.Max.Lat(), step) {
		x0, y := toDot(orb.Point{bound.Min.Lon(), lat})
		x1, _ := toDot(orb.Point{bound.Max.Lon(), lat})
		drawDotted(grid, x0, y, x1, y, dotW, dotH)
	}
	for _, lng := range gridLines(bound.Min.Lon(), bound.Max.Lon(), step) {
		x, y0 := toDot(orb.Point{lng, bound.Max.Lat()})
		_, y1 := toDot(orb.Point{lng, bound.Min.Lat()})
		drawDotted(grid, x, y0, x, y1, dotW, dotH)
	}

	pinCol, pinRow := -1, -1
	if m.marker != nil && bound.Contains(m.marker.Point()) {
		x, y := toDot(m.marker.Point())
		pinCol, pinRow = x/2, y/4
	}

	gridStyle := lipgloss.NewStyle().Foreground(styles.Grid)

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if row == pinRow && col == pinCol {
				sb.WriteString(styles.Pin.Render(PinGlyph))
				continue
			}

			var val rune = 0x2800
			for dot := 0; dot < 8; dot++ {
				dy := row*4 + dotPositions[dot][0]
				dx := col*2 + dotPositions[dot][1]
				if grid[dy][dx] {
					val |= brailleDots[dot]
				}
			}

			if val != 0x2800 {
				sb.WriteString(gridStyle.Render(string(val)))
			} else {
				sb.WriteRune(' ')
			}
		}
		if row < rows-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// Popup renders the marker info box, or "" without a marker.
func (m MapView) Popup() string {
	if m.marker == nil {
		return ""
	}
	title := styles.Pin.Render(PinGlyph + " " + MarkerTitle)
	coords := lipgloss.NewStyle().Foreground(styles.Muted).
		Render(fmt.Sprintf("%.5f, %.5f", m.marker.Lat, m.marker.Lng))
	return title + "  " + coords + "\n" + m.marker.Label
}

// Legend describes the current viewport and its ground width at the center latitude.
func (m MapView) Legend() string {
	half := m.region.LngSpan / 2
	west := orb.Point{m.region.CenterLng - half, m.region.CenterLat}
	east := orb.Point{m.region.CenterLng + half, m.region.CenterLat}
	km := geo.DistanceHaversine(west, east) / 1000

	return fmt.Sprintf("center %.4f, %.4f · span %.3f° × %.3f° · %.1f km wide",
		m.region.CenterLat, m.region.CenterLng, m.region.LatSpan, m.region.LngSpan, km)
}

// gridStep rounds raw up to the next 1, 2 or 5 times a power of ten.
func gridStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	base := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / base; {
	case f <= 1:
		return base
	case f <= 2:
		return 2 * base
	case f <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}

// maxGridLines caps the graticule per axis. gridStep keeps a normal viewport
// at four or five lines.
const maxGridLines = 16

// gridLines returns the multiples of step within [lo, hi], at most maxGridLines.
func gridLines(lo, hi, step float64) []float64 {
	var lines []float64
	first := math.Ceil(lo / step)
	for k := 0; k < maxGridLines; k++ {
		v := (first + float64(k)) * step
		if v > hi {
			break
		}
		if n := len(lines); n > 0 && v == lines[n-1] {
			// step is below the float resolution at this magnitude
			break
		}
		lines = append(lines, v)
	}
	return lines
}

// representable reports whether a bound extent computed around a far-out
// center still matches the requested span.
func representable(extent, span float64) bool {
	if span <= 0 || extent <= 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return false
	}
	return math.Abs(extent-span) <= span/2
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(grid [][]bool, x0, y0, x1, y1, maxW, maxH int) {
	plotLine(x0, y0, x1, y1, func(x, y, _ int) {
		if x >= 0 && x < maxW && y >= 0 && y < maxH {
			grid[y][x] = true
		}
	})
}

// drawDotted is drawLine with every other dot left out.
func drawDotted(grid [][]bool, x0, y0, x1, y1, maxW, maxH int) {
	plotLine(x0, y0, x1, y1, func(x, y, i int) {
		if i%2 == 0 && x >= 0 && x < maxW && y >= 0 && y < maxH {
			grid[y][x] = true
		}
	})
}

func plotLine(x0, y0, x1, y1 int, plot func(x, y, i int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for i := 0; ; i++ {
		plot(x0, y0, i)
		if x0 == x1 && y0 == y1 {
			break
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

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
