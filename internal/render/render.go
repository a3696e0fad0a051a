// Package render turns an ordered content block sequence into HTML for the
// public detail page.
package render

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"

	"github.com/Rahuman122003/blogify-module/internal/cache"
	"github.com/Rahuman122003/blogify-module/internal/model"
	"github.com/Rahuman122003/blogify-module/internal/util"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// RenderBlocks maps each block kind to its HTML form: paragraphs pass
// through the markdown renderer, headings are escaped into h2/h3, images
// become img tags with their alt text. Block order is display order.
func RenderBlocks(blocks []model.ContentBlock) template.HTML {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case model.KindParagraph:
			b.Write(renderParagraph(block.Text))
		case model.KindHeading2:
			fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(block.Text))
		case model.KindHeading3:
			fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(block.Text))
		case model.KindImage:
			fmt.Fprintf(&b, "<figure><img src=\"%s\" alt=\"%s\"></figure>\n",
				html.EscapeString(block.Text), html.EscapeString(block.AltText))
		default:
			renderLogger.Warn().Str("kind", string(block.Kind)).Msg("Skipping unknown block kind")
		}
	}
	return template.HTML(b.String())
}

func renderParagraph(text string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := md_html.NewRenderer(md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.HrefTargetBlank,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if code, ok := node.(*ast.CodeBlock); ok && entering {
				var lang string
				if info := code.Info; info != nil {
					lang = string(info)
				}
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", HighlightCode(string(code.Literal), lang))
				return ast.GoToNext, true
			}
			return ast.GoToNext, false
		},
	})
	return markdown.ToHTML([]byte(text), p, renderer)
}

var renderedCache = cache.NewCache[string, template.HTML]()

// RenderBlocksCached caches rendered output content-addressed by the block
// sequence, so any edit to the content naturally misses the stale entry.
func RenderBlocksCached(post *model.Post) template.HTML {
	key := blocksHash(post.Blocks)

	if cached, found := renderedCache.Get(key); found {
		return cached
	}

	rendered := RenderBlocks(post.Blocks)
	renderedCache.Set(key, rendered)
	return rendered
}

func blocksHash(blocks []model.ContentBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(string(block.Kind))
		b.WriteByte(0)
		b.WriteString(block.Text)
		b.WriteByte(0)
		b.WriteString(block.AltText)
		b.WriteByte(0)
	}
	return util.ContentHashString(b.String())
}
