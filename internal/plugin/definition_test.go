package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkweld/inkweld/internal/docmodel"
)

func TestParseDefinition(t *testing.T) {
	data := []byte(`
name: arrows
version: 1.2.0
description: Replace ASCII arrows
rules:
  - find: "->"
    replace: "→"
  - find: '(?m)^NOTE:'
    replace: "**Note:**"
    regex: true
css: |
  .arrow { color: red; }
`)

	p, err := ParseDefinition(data)
	require.NoError(t, err)

	assert.Equal(t, "arrows", p.Metadata().Name)
	assert.Equal(t, "1.2.0", p.Metadata().Version)
	assert.Contains(t, p.CSS(), ".arrow")

	doc := docmodel.NewDocument("src")
	doc.Append(&docmodel.File{Path: "a.md", Content: []byte("x -> y\nNOTE: read me\n")})
	require.NoError(t, p.Transform(context.Background(), doc))

	got := string(doc.Files[0].Content)
	assert.Contains(t, got, "x → y")
	assert.Contains(t, got, "**Note:** read me")
}

func TestParseDefinitionRejectsMissingName(t *testing.T) {
	_, err := ParseDefinition([]byte("version: 1.0.0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a name")
}

func TestParseDefinitionRejectsBadRegex(t *testing.T) {
	data := []byte(`
name: broken
rules:
  - find: "(unclosed"
    regex: true
    replace: ""
`)
	_, err := ParseDefinition(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestParseDefinitionRejectsEmptyFind(t *testing.T) {
	data := []byte(`
name: broken
rules:
  - find: ""
    replace: "x"
`)
	_, err := ParseDefinition(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find must be non-empty")
}

func TestDefinitionVersionDefault(t *testing.T) {
	p, err := ParseDefinition([]byte("name: bare\n"))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", p.Metadata().Version)
}
