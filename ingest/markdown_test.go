package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	html := MarkdownToHTML([]byte("# Deductibles\n\nA deductible is the insured's share of a loss."))
	assert.Contains(t, string(html), "Deductibles")
	assert.Contains(t, string(html), "<p>")
}

func TestMarkdownToHTMLSanitizes(t *testing.T) {
	html := MarkdownToHTML([]byte("safe text\n\n<script>alert(1)</script>"))
	assert.NotContains(t, string(html), "<script>")
	assert.Contains(t, string(html), "safe text")
}

func TestMarkdownToText(t *testing.T) {
	md := []byte("# Hurricane Deductibles\n\nTypically **2 to 5 percent** of Coverage A.\n\n- applies per season\n- set by endorsement")

	text, err := MarkdownToText(md)
	require.NoError(t, err)

	assert.Contains(t, text, "Hurricane Deductibles")
	assert.Contains(t, text, "2 to 5 percent")
	assert.Contains(t, text, "applies per season")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "**")
}

func TestHTMLToText(t *testing.T) {
	html := []byte(`<html><head><style>p{color:red}</style></head><body>
		<h1>Water Mitigation</h1>
		<script>var x = 1;</script>
		<p>Mitigation must begin within 48 hours.</p>
	</body></html>`)

	text, err := HTMLToText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Water Mitigation")
	assert.Contains(t, text, "48 hours")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "color:red")
}
