package ingest

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// MarkdownToHTML renders markdown to sanitized HTML.
func MarkdownToHTML(md []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	htmlBytes := markdown.Render(doc, renderer)

	return bluemonday.UGCPolicy().SanitizeBytes(htmlBytes)
}

// MarkdownToText renders markdown and extracts its plain text, suitable
// for splitting into basin chunks.
func MarkdownToText(md []byte) (string, error) {
	return HTMLToText(MarkdownToHTML(md))
}
