package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Background is the assumed page background for padding and margin detection.
var Background = color.White

// Raster is a rendered page. It wraps a decoded image and is treated as
// immutable once created: all operations return a new Raster.
type Raster struct {
	img image.Image
}

// New wraps a decoded image. The image must be non-nil and non-empty.
func New(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("raster: nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("raster: empty image bounds %v", b)
	}
	return &Raster{img: img}, nil
}

func (r *Raster) Bounds() image.Rectangle { return r.img.Bounds() }
func (r *Raster) Width() int              { return r.img.Bounds().Dx() }
func (r *Raster) Height() int             { return r.img.Bounds().Dy() }
func (r *Raster) Image() image.Image      { return r.img }

// Luminance converts the raster to an 8-bit grayscale plane.
func (r *Raster) Luminance() *image.Gray {
	if g, ok := r.img.(*image.Gray); ok {
		return g
	}
	b := r.img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(r.img.At(x, y)))
		}
	}
	return gray
}

// Crop returns the sub-raster covered by rect. The rectangle is clipped to
// the raster bounds; an empty intersection is an error.
func (r *Raster) Crop(rect image.Rectangle) (*Raster, error) {
	clipped := rect.Intersect(r.img.Bounds())
	if clipped.Dx() <= 0 || clipped.Dy() <= 0 {
		return nil, fmt.Errorf("raster: crop %v outside bounds %v", rect, r.img.Bounds())
	}
	dst := image.NewRGBA(image.Rect(0, 0, clipped.Dx(), clipped.Dy()))
	draw.Draw(dst, dst.Bounds(), r.img, clipped.Min, draw.Src)
	return &Raster{img: dst}, nil
}

// FitCanvas scales the raster to fit within a size x size square preserving
// aspect ratio, centers it, and pads the remainder with the background color.
// CatmullRom keeps the result bit-identical across calls.
func (r *Raster) FitCanvas(size int) *Raster {
	src := r.img.Bounds()
	scale := float64(size) / float64(src.Dx())
	if s := float64(size) / float64(src.Dy()); s < scale {
		scale = s
	}
	w := int(float64(src.Dx()) * scale)
	h := int(float64(src.Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	offset := image.Pt((size-w)/2, (size-h)/2)
	target := image.Rectangle{Min: offset, Max: offset.Add(image.Pt(w, h))}
	xdraw.CatmullRom.Scale(canvas, target, r.img, src, xdraw.Over, nil)

	return &Raster{img: canvas}
}
