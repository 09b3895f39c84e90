package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWithFrontmatter(t *testing.T) {
	source := []byte("---\nsubject: Hello\n---\nPractice **daily**.\n")

	html, meta, err := NewParser().ParseWithFrontmatter(source)
	require.NoError(t, err)
	assert.Equal(t, "Hello", meta["subject"])
	assert.Contains(t, string(html), "<strong>daily</strong>")
	assert.NotContains(t, string(html), "subject")
}

func TestParseWithoutFrontmatter(t *testing.T) {
	html, meta, err := NewParser().ParseWithFrontmatter([]byte("[dashboard](https://practicelog.test/dashboard)"))
	require.NoError(t, err)
	assert.NotNil(t, meta)
	assert.Empty(t, meta)
	assert.Contains(t, string(html), `<a href="https://practicelog.test/dashboard">dashboard</a>`)
}

func TestStripFrontmatter(t *testing.T) {
	assert.Equal(t, "Body\n", string(StripFrontmatter([]byte("---\nsubject: Hi\n---\nBody\n"))))
	assert.Equal(t, "No header\n", string(StripFrontmatter([]byte("No header\n"))))
	assert.Equal(t, "---\nunterminated", string(StripFrontmatter([]byte("---\nunterminated"))))
}
