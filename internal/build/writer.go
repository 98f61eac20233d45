package build

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkweld/inkweld/internal/assemble"
)

// RenderHTML serializes the assembled document into the single styled HTML
// artifact handed to the external typesetting engine. Section order and style
// order are exactly the assembly order; nothing is reordered here.
func RenderHTML(doc *assemble.AssembledDocument) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(doc.Title))
	for _, author := range doc.Authors {
		fmt.Fprintf(&b, "<meta name=\"author\" content=\"%s\">\n", html.EscapeString(author))
	}
	b.WriteString("<style>\n")
	b.WriteString(doc.StylesText())
	b.WriteString("</style>\n</head>\n<body>\n")

	for _, section := range doc.Sections {
		fmt.Fprintf(&b, "<section class=\"content-section\" id=%q>\n", section.Slug)
		b.WriteString(section.HTML)
		b.WriteString("</section>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// WriteArtifact renders the document and writes it to outPath, creating
// parent directories as needed.
func WriteArtifact(doc *assemble.AssembledDocument, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(RenderHTML(doc)), 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
