// Package minifier wraps tdewolff/minify for stylesheets, scripts, markup and
// vector images.
package minifier

import (
	"context"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Minifier)(nil)

// Media types understood by the minifier.
const (
	MediaCSS  = "text/css"
	MediaJS   = "application/javascript"
	MediaHTML = "text/html"
	MediaSVG  = "image/svg+xml"
)

var extMedia = map[string]string{
	".css":  MediaCSS,
	".js":   MediaJS,
	".mjs":  MediaJS,
	".html": MediaHTML,
	".htm":  MediaHTML,
	".svg":  MediaSVG,
}

// Minifier implements ports.Transformer for a single media type. Assets of
// any other type pass through unchanged.
type Minifier struct {
	name  string
	media string
	m     *minify.M
}

func newM() *minify.M {
	m := minify.New()
	// Legacy output keeps CSS2 syntax so old browsers parse the result.
	m.Add(MediaCSS, &css.Minifier{KeepCSS2: true})
	m.Add(MediaJS, &js.Minifier{})
	m.Add(MediaHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.Add(MediaSVG, &svg.Minifier{})
	return m
}

// NewCSS returns a stylesheet minifier with legacy browser compatibility.
func NewCSS() *Minifier { return &Minifier{name: "cssmin", media: MediaCSS, m: newM()} }

// NewJS returns a script minifier.
func NewJS() *Minifier { return &Minifier{name: "jsmin", media: MediaJS, m: newM()} }

// NewHTML returns a markup minifier.
func NewHTML() *Minifier { return &Minifier{name: "htmlmin", media: MediaHTML, m: newM()} }

// NewSVG returns a vector image minifier.
func NewSVG() *Minifier { return &Minifier{name: "svgmin", media: MediaSVG, m: newM()} }

// Name identifies the stage.
func (mn *Minifier) Name() string { return mn.name }

// Transform minifies every asset whose extension maps to the minifier's type.
func (mn *Minifier) Transform(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	out := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if extMedia[a.Ext()] != mn.media {
			out = append(out, a)
			continue
		}
		data, err := mn.Bytes(a.Data)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "minification failed"), "file", a.Path)
		}
		a.Data = data
		out = append(out, a)
	}
	return out, nil
}

// Bytes minifies data as the minifier's media type.
func (mn *Minifier) Bytes(data []byte) ([]byte, error) {
	return mn.m.Bytes(mn.media, data)
}
