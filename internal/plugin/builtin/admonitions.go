package builtin

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/inkweld/inkweld/internal/docmodel"
	"github.com/inkweld/inkweld/internal/plugin"
)

// Admonitions rewrites GitHub-style callout blockquotes
// (`> [!NOTE]` followed by quoted lines) into styled HTML blocks.
type Admonitions struct{}

// NewAdmonitions builds an admonitions plugin. It takes no options.
func NewAdmonitions(_ map[string]any) (plugin.Plugin, error) {
	return &Admonitions{}, nil
}

func (a *Admonitions) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        "admonitions",
		Version:     "1.0.0",
		Description: "Note/warning/tip callout blocks",
	}
}

var admonitionOpenRe = regexp.MustCompile(`^>\s*\[!(NOTE|TIP|WARNING|IMPORTANT|CAUTION)\]\s*$`)

func (a *Admonitions) Transform(_ context.Context, doc *docmodel.Document) error {
	for _, f := range doc.Files {
		f.Content = []byte(a.rewrite(string(f.Content)))
	}
	return nil
}

func (a *Admonitions) rewrite(content string) string {
	lines := strings.Split(content, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		m := admonitionOpenRe.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}

		kind := strings.ToLower(m[1])
		var body []string
		for i+1 < len(lines) && strings.HasPrefix(lines[i+1], ">") {
			i++
			body = append(body, strings.TrimPrefix(strings.TrimPrefix(lines[i], ">"), " "))
		}

		out = append(out,
			fmt.Sprintf(`<div class="admonition admonition-%s">`, kind),
			fmt.Sprintf(`<p class="admonition-title">%s</p>`, strings.ToUpper(kind[:1])+kind[1:]),
			"")
		out = append(out, body...)
		out = append(out, "", "</div>")
	}

	return strings.Join(out, "\n")
}

func (a *Admonitions) CSS() string {
	return `/* admonitions plugin */
.admonition { border-left: 4px solid #888; padding: 0.5rem 1rem; margin: 1rem 0; background: #f6f8fa; }
.admonition-title { font-weight: 600; margin: 0 0 0.25rem; }
.admonition-note { border-color: #0969da; }
.admonition-tip { border-color: #1a7f37; }
.admonition-warning { border-color: #9a6700; }
.admonition-important { border-color: #8250df; }
.admonition-caution { border-color: #cf222e; }
`
}
