// Package pdf normalizes incoming images and lays them out as PDF pages.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
)

var (
	// ErrUnsupported is returned for data that is not a JPEG, PNG or WebP image.
	ErrUnsupported = errors.New("unsupported image format")
	// ErrNoPages is returned by Build without input files.
	ErrNoPages = errors.New("no pages to render")
)

// Options tune Normalize.
type Options struct {
	// MaxSide bounds the longer side in pixels; 0 keeps the original size.
	MaxSide int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// Normalize decodes an image, applies its EXIF orientation, scales it into
// MaxSide, flattens transparency onto white and encodes it as JPEG.
func Normalize(r io.Reader, opts Options) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	var img image.Image
	if isWebP(data) {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	b := img.Bounds()
	if opts.MaxSide > 0 && (b.Dx() > opts.MaxSide || b.Dy() > opts.MaxSide) {
		img = imaging.Fit(img, opts.MaxSide, opts.MaxSide, imaging.Lanczos)
		b = img.Bounds()
	}
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	img = imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// pointsPerPixel maps pixels at 96 dpi to PDF points.
const pointsPerPixel = 72.0 / 96.0

func pageSize(path string) (fpdf.SizeType, error) {
	f, err := os.Open(path)
	if err != nil {
		return fpdf.SizeType{}, err
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		return fpdf.SizeType{}, fmt.Errorf("%s: %w", path, err)
	}
	return fpdf.SizeType{
		Wd: float64(cfg.Width) * pointsPerPixel,
		Ht: float64(cfg.Height) * pointsPerPixel,
	}, nil
}

// Build writes a PDF with one page per JPEG file, each page the size of its image.
func Build(w io.Writer, files []string) error {
	if len(files) == 0 {
		return ErrNoPages
	}
	doc := fpdf.NewCustom(&fpdf.InitType{OrientationStr: "P", UnitStr: "pt"})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for _, path := range files {
		size, err := pageSize(path)
		if err != nil {
			return err
		}
		doc.AddPageFormat("P", size)
		doc.ImageOptions(path, 0, 0, size.Wd, size.Ht, false, opts, 0, "")
		if err := doc.Error(); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
	}
	return doc.Output(w)
}
