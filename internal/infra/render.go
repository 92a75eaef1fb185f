package infra

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"entropy_go/internal/domain"

	"github.com/disintegration/imaging"
)

const chartMargin = 24

// ChartRenderer draws an equity curve to a PNG file. The curve is
// rendered at 2x and downscaled with a Lanczos filter for antialiasing.
type ChartRenderer struct {
	width  int
	height int
}

// NewChartRenderer creates a renderer with the given output size.
// Non-positive dimensions fall back to 1024x512.
func NewChartRenderer(width, height int) *ChartRenderer {
	if width <= 0 || height <= 0 {
		width, height = 1024, 512
	}
	return &ChartRenderer{width: width, height: height}
}

// RenderEquity writes the equity curve chart to path. The output format
// follows the file extension; at least two points are required.
func (r *ChartRenderer) RenderEquity(points []domain.Point, path string) error {
	if len(points) < 2 {
		return fmt.Errorf("equity chart needs at least 2 points, got %d", len(points))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
	}

	w, h := r.width*2, r.height*2
	img := imaging.New(w, h, color.NRGBA{R: 0x12, G: 0x12, B: 0x1a, A: 0xff})

	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if maxY == minY {
		maxY = minY + 1 // flat curve still renders as a line
	}
	minX, maxX := points[0].X, points[len(points)-1].X
	if maxX == minX {
		maxX = minX + 1
	}

	toPx := func(p domain.Point) (int, int) {
		x := chartMargin + int(float64(p.X-minX)/float64(maxX-minX)*float64(w-2*chartMargin))
		y := h - chartMargin - int((p.Y-minY)/(maxY-minY)*float64(h-2*chartMargin))
		return x, y
	}

	// Baseline at the starting equity.
	_, baseY := toPx(domain.Point{X: minX, Y: points[0].Y})
	baseColor := color.NRGBA{R: 0x44, G: 0x44, B: 0x55, A: 0xff}
	for x := chartMargin; x < w-chartMargin; x++ {
		img.SetNRGBA(x, baseY, baseColor)
	}

	lineColor := color.NRGBA{R: 0x4c, G: 0xc9, B: 0x8f, A: 0xff}
	if points[len(points)-1].Y < points[0].Y {
		lineColor = color.NRGBA{R: 0xe0, G: 0x5c, B: 0x5c, A: 0xff}
	}
	prevX, prevY := toPx(points[0])
	for _, p := range points[1:] {
		x, y := toPx(p)
		drawLine(img, prevX, prevY, x, y, lineColor)
		prevX, prevY = x, y
	}

	final := imaging.Resize(img, r.width, r.height, imaging.Lanczos)
	if err := imaging.Save(final, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// drawLine rasterizes a segment with integer DDA.
func drawLine(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))
	if steps == 0 {
		img.SetNRGBA(x0, y0, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		img.SetNRGBA(x, y, c)
	}
}
