package report

import (
	"fmt"
	"strings"

	"thesislab/pkg/core/utils"
)

// RenderMarkdown serializes the document tree to Markdown in its fixed
// order: summary, table of contents, body sections.
func RenderMarkdown(doc *Document) (string, error) {
	var b strings.Builder

	b.WriteString("# Summary\n\n")
	b.WriteString(doc.Summary)
	b.WriteString("\n\n# Contents\n\n")
	for i, title := range doc.Contents {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	b.WriteString("\n")

	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "# %s\n\n", s.Title)
		if s.Deferred {
			b.WriteString("_Deferred._ ")
		}
		b.WriteString(strings.TrimSpace(s.Body))
		b.WriteString("\n\n")
	}

	out := b.String()
	if !utils.ValidateMarkdown(out) {
		return "", fmt.Errorf("rendered document failed markdown validation")
	}
	return out, nil
}
