// Package imagemin recompresses raster images and minifies SVG markup.
package imagemin

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"

	"go.trai.ch/assetpipe/internal/adapters/transform/minifier"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Optimizer)(nil)

// DefaultJPEGQuality is the quality JPEG images are re-encoded at.
const DefaultJPEGQuality = 85

// Optimizer implements ports.Transformer. Each image is re-encoded and the
// result kept only when it is smaller than the original. Formats without an
// encoder (gif, ico, webp) pass through.
type Optimizer struct {
	quality int
	svg     *minifier.Minifier
	png     png.Encoder
}

// New creates an Optimizer. A quality outside 1..100 selects DefaultJPEGQuality.
func New(quality int) *Optimizer {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Optimizer{
		quality: quality,
		svg:     minifier.NewSVG(),
		png:     png.Encoder{CompressionLevel: png.BestCompression},
	}
}

// Name identifies the stage.
func (o *Optimizer) Name() string { return "imagemin" }

// Transform optimizes every image it has an encoder for.
func (o *Optimizer) Transform(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	out := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := o.optimize(a)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "image optimization failed"), "file", a.Path)
		}
		if len(data) < len(a.Data) {
			a.Data = data
		}
		out = append(out, a)
	}
	return out, nil
}

func (o *Optimizer) optimize(a domain.Asset) ([]byte, error) {
	switch a.Ext() {
	case ".png":
		img, err := png.Decode(bytes.NewReader(a.Data))
		if err != nil {
			return nil, err
		}
		return o.encode(img, func(buf *bytes.Buffer) error { return o.png.Encode(buf, img) })
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(bytes.NewReader(a.Data))
		if err != nil {
			return nil, err
		}
		return o.encode(img, func(buf *bytes.Buffer) error {
			return jpeg.Encode(buf, img, &jpeg.Options{Quality: o.quality})
		})
	case ".svg":
		return o.svg.Bytes(a.Data)
	default:
		return a.Data, nil
	}
}

func (o *Optimizer) encode(img image.Image, fn func(*bytes.Buffer) error) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(img.Bounds().Dx() * img.Bounds().Dy() / 4)
	if err := fn(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
