package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWithBlock(t *testing.T) {
	content := []byte("---\ntitle: Intro\nweight: 10\n---\n# Heading\n")

	block, body, err := Extract(content)
	require.NoError(t, err)

	assert.Equal(t, "Intro", block.Title())
	assert.Equal(t, 10, block.Fields["weight"])
	assert.Equal(t, "# Heading\n", string(body))
}

func TestExtractWithoutBlock(t *testing.T) {
	content := []byte("# Just markdown\n")

	block, body, err := Extract(content)
	require.NoError(t, err)

	assert.Nil(t, block.Fields)
	assert.Equal(t, string(content), string(body))
}

func TestExtractEmptyBlock(t *testing.T) {
	block, body, err := Extract([]byte("---\n---\nbody\n"))
	require.NoError(t, err)

	assert.Empty(t, block.Fields)
	assert.Equal(t, "body\n", string(body))
}

func TestExtractCRLF(t *testing.T) {
	block, body, err := Extract([]byte("---\r\ntitle: Win\r\n---\r\nbody\r\n"))
	require.NoError(t, err)

	assert.Equal(t, "Win", block.Title())
	assert.Equal(t, "body\r\n", string(body))
}

func TestExtractMissingClosingDelimiter(t *testing.T) {
	_, _, err := Extract([]byte("---\ntitle: Broken\n"))
	assert.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestTitleNonString(t *testing.T) {
	block, _, err := Extract([]byte("---\ntitle: 42\n---\nbody\n"))
	require.NoError(t, err)
	assert.Empty(t, block.Title())
}

func TestExtractHorizontalRuleBodyOnly(t *testing.T) {
	// A thematic break later in the file is not a frontmatter delimiter.
	content := []byte("intro\n\n---\n\nafter\n")

	block, body, err := Extract(content)
	require.NoError(t, err)
	assert.Nil(t, block.Fields)
	assert.Equal(t, string(content), string(body))
}
