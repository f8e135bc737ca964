package presentation

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var previewEngine = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Chat HTML mode accepts a handful of inline tags only.
var chatTags = strings.NewReplacer(
	"<p>", "",
	"</p>", "\n",
	"<strong>", "<b>",
	"</strong>", "</b>",
	"<em>", "<i>",
	"</em>", "</i>",
	"<del>", "<s>",
	"</del>", "</s>",
	"<br>", "",
	"<br />", "",
	"<ul>", "",
	"</ul>", "",
	"<ol>", "",
	"</ol>", "",
	"<li>", "• ",
	"</li>", "",
	"<h1>", "<b>",
	"</h1>", "</b>\n",
	"<h2>", "<b>",
	"</h2>", "</b>\n",
	"<h3>", "<b>",
	"</h3>", "</b>\n",
	"<blockquote>", "",
	"</blockquote>", "",
	"<hr>", "",
	"<hr />", "",
	"<!-- raw HTML omitted -->", "",
)

// MarkdownPreview renders long text into the HTML subset chat clients accept.
// Raw HTML in the source is dropped.
func MarkdownPreview(text string) (string, error) {
	var buf bytes.Buffer
	if err := previewEngine.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("presentation: render preview: %w", err)
	}
	return strings.TrimSpace(chatTags.Replace(buf.String())), nil
}
