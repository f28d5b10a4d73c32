// Package pug renders Pug page templates to HTML.
package pug

import (
	"bytes"
	"context"
	"html/template"

	"github.com/Joker/jade"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Renderer)(nil)

// Data is the value every page is executed with.
type Data struct {
	// Production is true in production builds so pages can switch assets.
	Production bool
}

// Renderer implements ports.Transformer. Pages are compiled to html/template
// source, so includes and extends are resolved from the page's directory.
type Renderer struct {
	data Data
}

// New creates a Renderer.
func New(mode domain.Mode) *Renderer {
	return &Renderer{data: Data{Production: mode.IsProduction()}}
}

// Name identifies the stage.
func (r *Renderer) Name() string { return "pug" }

// Transform renders every page and renames it to .html.
func (r *Renderer) Transform(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	out := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		html, err := r.render(a)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "template rendering failed"), "file", a.Source)
		}
		page := a.WithExt(".html")
		page.Data = html
		out = append(out, page)
	}
	return out, nil
}

func (r *Renderer) render(a domain.Asset) ([]byte, error) {
	src, err := jade.Parse(a.Source, a.Data)
	if err != nil {
		return nil, err
	}

	tpl, err := template.New(a.Path).Parse(src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, r.data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
