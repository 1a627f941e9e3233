package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// extractMarkdown strips markdown syntax by walking the parsed tree and
// collecting text segments, so headings and emphasis markers never leak
// into the embedded chunks.
func extractMarkdown(data []byte) (string, error) {
	md := goldmark.New()
	reader := text.NewReader(data)
	doc := md.Parser().Parse(reader)

	var parts []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if fenced, ok := node.(*ast.FencedCodeBlock); ok {
			var code strings.Builder
			for i := 0; i < fenced.Lines().Len(); i++ {
				line := fenced.Lines().At(i)
				code.Write(line.Value(data))
			}
			if txt := strings.TrimSpace(code.String()); txt != "" {
				parts = append(parts, txt)
			}
			continue
		}
		if txt := nodeText(node, data); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind() == ast.KindText {
			sb.Write(node.(*ast.Text).Segment.Value(source))
			sb.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
