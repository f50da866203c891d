// Package source renders documents into page rasters. It is the engine's
// rendering collaborator: the comparison core only ever sees the Source
// interface.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/proofcheck/internal/raster"
)

// Source is one side of a comparison pair: a document that can report its
// page count and render any page at a given DPI.
type Source interface {
	Name() string
	Size() int64
	PageCount() int
	RenderPage(index int, dpi int) (*raster.Raster, error)
	Close() error
}

// FitzPDFSource renders PDF pages through MuPDF.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	size int64
}

// NewFitzPDFSource opens a PDF. The kept document handle serves page count
// queries only; rendering re-opens the file per call so that concurrent
// workers never share a fitz context.
func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	var size int64
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}
	return &FitzPDFSource{doc: doc, path: path, size: size}, nil
}

func (f *FitzPDFSource) Name() string { return filepath.Base(f.path) }
func (f *FitzPDFSource) Size() int64  { return f.size }

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) RenderPage(index int, dpi int) (*raster.Raster, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	img, err := workerDoc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, err
	}
	return raster.New(img)
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

// Open picks a source implementation by file extension.
func Open(path string) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}
