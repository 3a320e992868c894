package term

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Pixels per terminal cell when an image has no explicit size.
const (
	pixelsPerColumn = 10
	pixelsPerRow    = 20
)

// Upper bounds on the cells one image may occupy.
const (
	maxImageColumns = 512
	maxImageRows    = 256
)

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image (%d bytes): %w", len(data), err)
	}
	return img, nil
}

// imageCells returns the cell size of an image: the explicit width and
// height when set, otherwise one column per 10 pixels and one row per 20.
// Both are clamped to at least one cell and at most maxImageColumns by
// maxImageRows.
func imageCells(img image.Image, width, height float64) (cols, rows int) {
	b := img.Bounds()
	cols = cells(width, b.Dx()/pixelsPerColumn, maxImageColumns)
	rows = cells(height, b.Dy()/pixelsPerRow, maxImageRows)
	return cols, rows
}

// cells picks the explicit size when it is positive and natural otherwise,
// bounded to [1, limit]. The comparison happens in float space so huge or
// infinite sizes never overflow the conversion.
func cells(explicit float64, natural, limit int) int {
	n := natural
	if explicit > 0 {
		n = int(min(explicit, float64(limit)))
	}
	return min(max(n, 1), limit)
}

// shadeImage renders img as cols x rows glyphs, picking each glyph by the
// mean luminance of the pixels under the cell.
func shadeImage(img image.Image, cols, rows int, shades string) []string {
	glyphs := []rune(shades)
	b := img.Bounds()
	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		line := make([]rune, cols)
		y0 := b.Min.Y + r*b.Dy()/rows
		y1 := max(b.Min.Y+(r+1)*b.Dy()/rows, y0+1)
		for c := 0; c < cols; c++ {
			x0 := b.Min.X + c*b.Dx()/cols
			x1 := max(b.Min.X+(c+1)*b.Dx()/cols, x0+1)
			lum := meanLuminance(img, x0, y0, x1, y1)
			line[c] = glyphs[lum*(len(glyphs)-1)/0xffff]
		}
		lines[r] = string(line)
	}
	return lines
}

func meanLuminance(img image.Image, x0, y0, x1, y1 int) int {
	var sum, n int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Rec. 601 luma
			sum += int((299*r + 587*g + 114*b) / 1000)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
