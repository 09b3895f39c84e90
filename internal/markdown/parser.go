package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

var delimiter = []byte("---")

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

// ParseWithFrontmatter renders source to HTML and decodes its YAML frontmatter.
// meta is empty, never nil, when there is no frontmatter.
func (p *Parser) ParseWithFrontmatter(source []byte) (content []byte, meta map[string]any, err error) {
	context := parser.NewContext()
	var buf bytes.Buffer

	err = p.md.Convert(source, &buf, parser.WithContext(context))
	if err != nil {
		return nil, nil, err
	}

	meta = make(map[string]any)
	data := frontmatter.Get(context)
	if data != nil {
		err = data.Decode(&meta)
		if err != nil {
			return nil, nil, err
		}
	}

	return buf.Bytes(), meta, nil
}

// StripFrontmatter returns the markdown body without a leading --- block.
func StripFrontmatter(source []byte) []byte {
	trimmed := bytes.TrimLeft(source, "\r\n")
	if !bytes.HasPrefix(trimmed, delimiter) {
		return source
	}

	rest := trimmed[len(delimiter):]
	end := bytes.Index(rest, append([]byte("\n"), delimiter...))
	if end < 0 {
		return source
	}

	body := rest[end+1+len(delimiter):]
	return bytes.TrimLeft(body, "\r\n")
}
