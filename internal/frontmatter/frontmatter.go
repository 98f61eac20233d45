// Package frontmatter extracts the YAML metadata block (`---` delimited) that
// may lead a content file. Extracted fields feed section titles and plugin
// metadata; the returned body is what the markdown renderer sees.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates a file opened a frontmatter block but
// never closed it.
var ErrMissingClosingDelimiter = errors.New("frontmatter opening delimiter found but closing delimiter is missing")

// Block is the parsed frontmatter of one content file.
type Block struct {
	Fields map[string]any
}

// Title returns the title field when present and a string.
func (b Block) Title() string {
	if b.Fields == nil {
		return ""
	}
	s, _ := b.Fields["title"].(string)
	return s
}

// Extract splits a leading YAML frontmatter block from content and parses it.
// Files without a block pass through untouched with an empty Block. Both LF
// and CRLF newline styles are recognized.
func Extract(content []byte) (Block, []byte, error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)

	if !bytes.HasPrefix(content, open) {
		return Block{}, content, nil
	}

	rest := content[len(open):]

	// Empty block: the closing delimiter immediately follows the opening one.
	if bytes.HasPrefix(rest, open) {
		return Block{Fields: map[string]any{}}, rest[len(open):], nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return Block{}, nil, ErrMissingClosingDelimiter
	}

	raw := rest[:idx+len(nl)]
	body := rest[idx+len(closeSeq):]

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return Block{}, nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return Block{Fields: fields}, body, nil
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
