package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/proofcheck/internal/history"
	"github.com/ivlev/proofcheck/internal/session"
	"github.com/ivlev/proofcheck/internal/validate"
)

const stampBorder = 8

var stampColors = map[validate.PairStatus]color.RGBA{
	validate.PairApproved: {R: 0x28, G: 0xa7, B: 0x45, A: 0xff},
	validate.PairRejected: {R: 0xdc, G: 0x35, B: 0x45, A: 0xff},
	validate.PairPartial:  {R: 0xff, G: 0xc1, B: 0x07, A: 0xff},
	validate.PairPending:  {R: 0x6c, G: 0x75, B: 0x7d, A: 0xff},
}

// Stamp renders an approval stamp for a pair: its QR payload is
// "code|status|signature", scannable on the print floor to trace the proof
// back to its review record. The border color encodes the verdict.
func Stamp(p session.PairView, size int) (image.Image, error) {
	if size < 64 {
		size = 64
	}

	signature := history.Signature(p.ReferenceName, p.ReferenceSize, p.ProofName, p.ProofSize)
	payload := fmt.Sprintf("%s|%s|%s", p.Code, p.Status, signature)

	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("report: stamp for %s: %w", p.Code, err)
	}
	qrImg := qr.Image(size - 2*stampBorder)

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(stampColors[p.Status]), image.Point{}, draw.Src)

	inner := image.Rect(stampBorder, stampBorder, size-stampBorder, size-stampBorder)
	draw.Draw(canvas, inner, qrImg, qrImg.Bounds().Min, draw.Src)

	return canvas, nil
}

// SaveStamp writes a pair's stamp as PNG.
func SaveStamp(path string, p session.PairView, size int) error {
	img, err := Stamp(p, size)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
