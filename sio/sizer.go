package sio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Sizer reports the natural size of an image.
type Sizer interface {
	Size(imageLoc string) (w, h float64, err error)
}

// FileSizer gets image sizes by reading image headers from files.
//
// Relative image locations are relative to Dir.  Sizes are
// remembered.  Supports GIF, JPEG, PNG, BMP, and WebP.
type FileSizer struct {
	Dir string

	sync.Mutex
	sizes map[string]image.Point
}

// NewFileSizer makes a FileSizer for images in the given directory.
func NewFileSizer(dir string) *FileSizer {
	return &FileSizer{
		Dir:   dir,
		sizes: make(map[string]image.Point),
	}
}

func (s *FileSizer) Size(imageLoc string) (float64, float64, error) {
	s.Lock()
	defer s.Unlock()

	if p, have := s.sizes[imageLoc]; have {
		return float64(p.X), float64(p.Y), nil
	}

	filename := imageLoc
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(s.Dir, filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	conf, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("sizing %s: %w", imageLoc, err)
	}

	if s.sizes == nil {
		s.sizes = make(map[string]image.Point)
	}
	s.sizes[imageLoc] = image.Pt(conf.Width, conf.Height)

	return float64(conf.Width), float64(conf.Height), nil
}

// SizerFunc makes a function a Sizer.
type SizerFunc func(imageLoc string) (float64, float64, error)

func (f SizerFunc) Size(imageLoc string) (float64, float64, error) {
	return f(imageLoc)
}
