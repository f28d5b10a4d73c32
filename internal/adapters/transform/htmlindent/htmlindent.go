// Package htmlindent pretty-prints rendered markup, one element per line.
package htmlindent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
)

var _ ports.Transformer = (*Indenter)(nil)

// DefaultIndent is the per-level indentation.
const DefaultIndent = "  "

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// verbatimElements keep their content exactly as rendered.
var verbatimElements = map[string]bool{"pre": true, "textarea": true}

// Indenter implements ports.Transformer for .html assets. Every element
// starts on its own line, nested one level deeper than its parent. An element
// whose only content is text stays on one line. Other assets pass through.
type Indenter struct {
	indent string
}

// New creates an Indenter using DefaultIndent.
func New() *Indenter {
	return &Indenter{indent: DefaultIndent}
}

// Name identifies the stage.
func (i *Indenter) Name() string { return "htmlindent" }

// Transform indents every HTML asset.
func (i *Indenter) Transform(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
	out := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if a.Ext() != ".html" && a.Ext() != ".htm" {
			out = append(out, a)
			continue
		}
		data, err := i.Indent(a.Data)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "indenting markup failed"), "file", a.Path)
		}
		indented := a
		indented.Data = data
		out = append(out, indented)
	}
	return out, nil
}

type token struct {
	typ  html.TokenType
	name string
	raw  string
}

// Indent re-flows markup. Attributes and entities are written as found.
func (i *Indenter) Indent(src []byte) ([]byte, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	depth := 0
	line := func(s string) {
		b.WriteString(strings.Repeat(i.indent, depth))
		b.WriteString(s)
		b.WriteByte('\n')
	}

	for n := 0; n < len(tokens); n++ {
		t := tokens[n]
		switch t.typ {
		case html.TextToken:
			if s := strings.TrimSpace(t.raw); s != "" {
				line(s)
			}

		case html.StartTagToken:
			if voidElements[t.name] {
				line(t.raw)
				continue
			}
			if verbatimElements[t.name] {
				end := closing(tokens, n)
				var inner strings.Builder
				for _, v := range tokens[n:end] {
					inner.WriteString(v.raw)
				}
				line(inner.String())
				n = end - 1
				continue
			}
			if n+1 < len(tokens) && isEnd(tokens[n+1], t.name) {
				line(t.raw + tokens[n+1].raw)
				n++
				continue
			}
			if n+2 < len(tokens) && tokens[n+1].typ == html.TextToken && isEnd(tokens[n+2], t.name) {
				line(t.raw + strings.TrimSpace(tokens[n+1].raw) + tokens[n+2].raw)
				n += 2
				continue
			}
			line(t.raw)
			depth++

		case html.EndTagToken:
			if depth > 0 {
				depth--
			}
			line(t.raw)

		default:
			line(t.raw)
		}
	}
	return b.Bytes(), nil
}

func tokenize(src []byte) ([]token, error) {
	z := html.NewTokenizer(bytes.NewReader(src))
	var tokens []token
	for {
		typ := z.Next()
		if typ == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			return tokens, nil
		}
		t := token{typ: typ, raw: string(z.Raw())}
		if typ == html.StartTagToken || typ == html.EndTagToken || typ == html.SelfClosingTagToken {
			name, _ := z.TagName()
			t.name = string(name)
		}
		tokens = append(tokens, t)
	}
}

func isEnd(t token, name string) bool {
	return t.typ == html.EndTagToken && t.name == name
}

// closing returns the index just past the end tag matching tokens[start],
// or len(tokens) when it is missing.
func closing(tokens []token, start int) int {
	name, open := tokens[start].name, 0
	for n := start; n < len(tokens); n++ {
		switch {
		case tokens[n].typ == html.StartTagToken && tokens[n].name == name:
			open++
		case isEnd(tokens[n], name):
			open--
			if open == 0 {
				return n + 1
			}
		}
	}
	return len(tokens)
}
