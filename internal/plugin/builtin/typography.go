package builtin

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/inkweld/inkweld/internal/docmodel"
	"github.com/inkweld/inkweld/internal/plugin"
)

// Typography rewrites plain ASCII punctuation into typographic equivalents:
// straight quotes to curly ones, double hyphens to em dashes, triple dots to
// ellipses. Fenced code blocks and inline code spans are left untouched.
type Typography struct {
	smartQuotes bool
	dashes      bool
	ellipsis    bool
}

// NewTypography builds a typography plugin from entry options. All rewrites
// are enabled unless individually turned off.
func NewTypography(options map[string]any) (plugin.Plugin, error) {
	t := &Typography{smartQuotes: true, dashes: true, ellipsis: true}
	if v, ok := options["smart_quotes"].(bool); ok {
		t.smartQuotes = v
	}
	if v, ok := options["dashes"].(bool); ok {
		t.dashes = v
	}
	if v, ok := options["ellipsis"].(bool); ok {
		t.ellipsis = v
	}
	return t, nil
}

func (t *Typography) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        "typography",
		Version:     "1.0.0",
		Description: "Smart quotes, em dashes, and ellipses",
	}
}

func (t *Typography) CSS() string {
	return ""
}

var (
	openDoubleRe  = regexp.MustCompile(`(^|[\s(\[{])"`)
	openSingleRe  = regexp.MustCompile(`(^|[\s(\[{])'`)
	emDashRe      = regexp.MustCompile(`(\S)\s*--\s*(\S)`)
	ellipsisRe    = regexp.MustCompile(`\.\.\.`)
	codeFenceRe   = regexp.MustCompile("^(```|~~~)")
	inlineCodeRe  = regexp.MustCompile("`[^`]*`")
	placeholderRe = regexp.MustCompile("\x00(\\d+)\x00")
)

func (t *Typography) Transform(_ context.Context, doc *docmodel.Document) error {
	for _, f := range doc.Files {
		f.Content = []byte(t.rewrite(string(f.Content)))
	}
	return nil
}

func (t *Typography) rewrite(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false
	for i, line := range lines {
		if codeFenceRe.MatchString(strings.TrimSpace(line)) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = t.rewriteLine(line)
	}
	return strings.Join(lines, "\n")
}

func (t *Typography) rewriteLine(line string) string {
	// Shelter inline code spans behind placeholders before rewriting.
	var spans []string
	line = inlineCodeRe.ReplaceAllStringFunc(line, func(s string) string {
		spans = append(spans, s)
		return fmt.Sprintf("\x00%d\x00", len(spans)-1)
	})

	if t.smartQuotes {
		line = openDoubleRe.ReplaceAllString(line, "$1“")
		line = strings.ReplaceAll(line, `"`, "”")
		line = openSingleRe.ReplaceAllString(line, "$1‘")
		line = strings.ReplaceAll(line, `'`, "’")
	}
	if t.dashes {
		line = emDashRe.ReplaceAllString(line, "$1—$2")
	}
	if t.ellipsis {
		line = ellipsisRe.ReplaceAllString(line, "…")
	}

	line = placeholderRe.ReplaceAllStringFunc(line, func(s string) string {
		idx, err := strconv.Atoi(strings.Trim(s, "\x00"))
		if err != nil || idx >= len(spans) {
			return s
		}
		return spans[idx]
	})
	return line
}
