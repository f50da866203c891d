package source

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/ivlev/proofcheck/internal/raster"
)

// ImageSource treats a single raster file (PNG/JPEG) as a one-page document.
// DPI is ignored: the image is already rasterized.
type ImageSource struct {
	path string
	size int64
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &ImageSource{path: path, size: fi.Size()}, nil
}

func (s *ImageSource) Name() string { return filepath.Base(s.path) }
func (s *ImageSource) Size() int64  { return s.size }

func (s *ImageSource) PageCount() int { return 1 }

func (s *ImageSource) RenderPage(index int, dpi int) (*raster.Raster, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return raster.New(img)
}

func (s *ImageSource) Close() error { return nil }
