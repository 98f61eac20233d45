package builtin

import (
	"context"
	"regexp"
	"strings"

	"github.com/inkweld/inkweld/internal/docmodel"
	"github.com/inkweld/inkweld/internal/plugin"
)

// TOC records each file's first top-level heading as its section title and
// annotates the file metadata with the full heading outline. It contributes
// navigation styling for the rendered document.
type TOC struct {
	maxDepth int
}

// NewTOC builds a toc plugin from entry options.
func NewTOC(options map[string]any) (plugin.Plugin, error) {
	t := &TOC{maxDepth: 3}
	if v, ok := options["max_depth"].(int); ok && v > 0 {
		t.maxDepth = v
	}
	return t, nil
}

func (t *TOC) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        "toc",
		Version:     "1.0.0",
		Description: "Section titles and heading outline",
	}
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)

// Heading is one outline entry recorded in file metadata.
type Heading struct {
	Level int
	Text  string
}

func (t *TOC) Transform(_ context.Context, doc *docmodel.Document) error {
	for _, f := range doc.Files {
		outline := t.extractOutline(string(f.Content))
		if len(outline) > 0 && f.Title == "" {
			f.Title = outline[0].Text
		}
		if f.Metadata == nil {
			f.Metadata = make(map[string]any)
		}
		f.Metadata["outline"] = outline
	}
	return nil
}

func (t *TOC) extractOutline(content string) []Heading {
	var outline []Heading
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level := len(m[1])
		if level > t.maxDepth {
			continue
		}
		outline = append(outline, Heading{Level: level, Text: m[2]})
	}
	return outline
}

func (t *TOC) CSS() string {
	return `/* toc plugin */
h1[id], h2[id], h3[id] { scroll-margin-top: 1rem; }
.section-anchor { text-decoration: none; color: inherit; }
`
}
