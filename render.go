package assetdoc

import (
	"bytes"
	"context"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-assetdoc/internal/assets"
)

// previewTemplate wraps goldmark's fragment output in an HTML5 page.
const previewTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
%s
</body>
</html>`

// Renderer turns a profile document into a standalone HTML preview.
// JSON payloads are syntax highlighted with CSS classes.
type Renderer struct {
	md     goldmark.Markdown
	styles assets.StyleLoader
	style  string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithStyle selects the stylesheet by name.
func WithStyle(name string) RendererOption {
	return func(r *Renderer) { r.style = name }
}

// WithStyleLoader replaces the embedded stylesheet source.
func WithStyleLoader(l assets.StyleLoader) RendererOption {
	return func(r *Renderer) { r.styles = l }
}

// NewRenderer creates a Renderer with GFM and highlighting enabled.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
					highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
				),
			),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		),
		styles: assets.NewEmbeddedLoader(),
		style:  assets.DefaultStyle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts document text into an HTML page. The page title is the
// document's "# " heading, or DefaultDocumentTitle.
func (r *Renderer) Render(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	css, err := r.styles.LoadStyle(r.style)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHTMLConversion, err)
	}
	doc, _ := ParseDocument(text)
	title := doc.Title
	if title == "" {
		title = DefaultDocumentTitle
	}

	type result struct {
		body string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(normalizeLineEndings(text)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{body: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return fmt.Sprintf(previewTemplate, html.EscapeString(title), css, res.body), nil
	}
}

// RenderRecords generates the document for records with g and renders it.
func (r *Renderer) RenderRecords(ctx context.Context, g Generator, records []Record) (string, error) {
	text, err := g.Generate(records)
	if err != nil {
		return "", err
	}
	return r.Render(ctx, text)
}
