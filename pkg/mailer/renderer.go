package mailer

import (
	"bytes"
	"errors"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RenderMarkdown converts a markdown body to HTML for the email's HTML
// part. The markdown source doubles as the plain-text alternative, so
// message bodies are authored once.
func RenderMarkdown(src string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", errors.Join(ErrRenderFailed, err)
	}

	return buf.String(), nil
}
