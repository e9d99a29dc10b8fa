package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxColumns is the widest a composite grid gets.
const MaxColumns = 2

// ErrNoImages is returned when a composite is requested for an empty set.
var ErrNoImages = errors.New("no images to composite")

// Canvas describes the fixed-size thumbnail a composite is drawn on.
type Canvas struct {
	Width   int
	Height  int
	Padding int
}

// DefaultCanvas is the outfit list thumbnail: 64x80 points with 4 points of
// padding, rendered at 3x.
var DefaultCanvas = Canvas{Width: 192, Height: 240, Padding: 12}

// Grid is the cell layout for a composite of N images.
type Grid struct {
	Columns    int
	Rows       int
	CellWidth  int
	CellHeight int
	Padding    int

	// Cells is how many images get drawn. It is less than N when the
	// canvas cannot give every image a cell at least one pixel tall.
	Cells int
}

// Layout computes a near-square grid for n images on the canvas:
// columns = min(MaxColumns, n), rows = ceil(n/columns). Rows that would not
// fit are dropped, so only the first Grid.Cells images are drawn. ErrNoImages
// is the only error.
func (c Canvas) Layout(n int) (Grid, error) {
	if n <= 0 {
		return Grid{}, ErrNoImages
	}

	cols := min(MaxColumns, n)
	rows := (n + cols - 1) / cols

	// Most rows that still leave each cell one pixel tall.
	if fit := max(0, (c.Height-c.Padding)/(c.Padding+1)); rows > fit {
		rows = fit
	}

	g := Grid{Columns: cols, Padding: c.Padding}
	cellWidth := (c.Width - c.Padding*(cols+1)) / cols
	if rows == 0 || cellWidth <= 0 {
		return g, nil
	}

	g.Rows = rows
	g.CellWidth = cellWidth
	g.CellHeight = (c.Height - c.Padding*(rows+1)) / rows
	g.Cells = min(n, cols*rows)
	return g, nil
}

// Cell returns the rectangle of the i-th cell, filled row by row.
func (g Grid) Cell(i int) image.Rectangle {
	row := i / g.Columns
	col := i % g.Columns
	x := g.Padding + col*(g.CellWidth+g.Padding)
	y := g.Padding + row*(g.CellHeight+g.Padding)
	return image.Rect(x, y, x+g.CellWidth, y+g.CellHeight)
}

// FitRect returns the largest rectangle with the aspect ratio of size that
// fits inside cell, centered in it.
func FitRect(size image.Point, cell image.Rectangle) image.Rectangle {
	cw, ch := cell.Dx(), cell.Dy()
	if size.X <= 0 || size.Y <= 0 || cw <= 0 || ch <= 0 {
		return image.Rectangle{Min: cell.Min, Max: cell.Min}
	}

	// Integer math: the limiting side fills the cell exactly.
	var w, h int
	if cw*size.Y <= ch*size.X {
		w = cw
		h = max(1, size.Y*cw/size.X)
	} else {
		h = ch
		w = max(1, size.X*ch/size.Y)
	}

	x := cell.Min.X + (cw-w)/2
	y := cell.Min.Y + (ch-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// Composite renders images onto DefaultCanvas. See Canvas.Composite.
func Composite(images [][]byte) ([]byte, error) {
	return DefaultCanvas.Composite(images)
}

// Composite draws each image, scaled to fit and centered in its grid cell,
// on a white canvas and returns the result as PNG. Images that fail to
// decode leave their cell blank; images beyond Grid.Cells are left out.
func (c Canvas) Composite(images [][]byte) ([]byte, error) {
	img, err := c.Render(images)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding composite: %w", err)
	}
	return buf.Bytes(), nil
}

// Render is Composite without the final PNG encoding.
func (c Canvas) Render(images [][]byte) (*image.RGBA, error) {
	grid, err := c.Layout(len(images))
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for i, data := range images[:grid.Cells] {
		src, err := Decode(data)
		if err != nil {
			continue
		}
		target := FitRect(src.Bounds().Size(), grid.Cell(i))
		draw.CatmullRom.Scale(dst, target, src, src.Bounds(), draw.Over, nil)
	}
	return dst, nil
}
