package main

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Entry is one version section of a changelog.
type Entry struct {
	Version string
	Date    string
	Body    string
}

// Changelog is a parsed Keep a Changelog file.
type Changelog struct {
	Entries []Entry
	Links   map[string]string
}

// Entry returns the entry for a version, tolerating a leading "v".
func (c *Changelog) Entry(version string) *Entry {
	version = strings.TrimPrefix(version, "v")

	for i := range c.Entries {
		if strings.TrimPrefix(c.Entries[i].Version, "v") == version {
			return &c.Entries[i]
		}
	}
	return nil
}

// span marks where a version section sits in the source.
type span struct {
	version  string
	date     string
	from     int
	bodyFrom int
}

// Parse reads a Keep a Changelog formatted markdown file. Each level-2
// heading opens an entry whose body runs to the next level-2 heading.
func Parse(source []byte) (*Changelog, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	changelog := &Changelog{Links: map[string]string{}}
	for _, ref := range ctx.References() {
		changelog.Links[string(ref.Label())] = string(ref.Destination())
	}

	var spans []span
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		heading, ok := n.(*ast.Heading)
		if !entering || !ok || heading.Level != 2 {
			return ast.WalkContinue, nil
		}

		version, date := splitHeading(headingText(heading, source))

		s := span{version: version, date: date}
		if lines := heading.Lines(); lines.Len() > 0 {
			s.from = lines.At(0).Start
			s.bodyFrom = lines.At(lines.Len() - 1).Stop
		}
		spans = append(spans, s)

		return ast.WalkSkipChildren, nil
	})

	for i, s := range spans {
		end := len(source)
		if i+1 < len(spans) {
			end = spans[i+1].from
		}

		body := ""
		if s.bodyFrom < end {
			body = strings.TrimSpace(string(source[s.bodyFrom:end]))
		}

		changelog.Entries = append(changelog.Entries, Entry{
			Version: s.version,
			Date:    s.date,
			Body:    body,
		})
	}

	return changelog, nil
}

// headingText flattens a heading to its text content. Versions with a link
// definition parse as links, so the walk has to descend into child nodes.
func headingText(heading ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// splitHeading separates "[1.2.3] - 2024-01-15" into version and date.
// Brackets survive only when no link definition exists for the version.
func splitHeading(heading string) (version, date string) {
	version = strings.TrimSpace(heading)
	if v, rest, ok := strings.Cut(version, " - "); ok {
		version, date = v, strings.TrimSpace(rest)
	}
	version = strings.Trim(version, "[]")
	return version, date
}
