// internal/htmlclean/clean.go

// Package htmlclean strips markup from work-item HTML so that payloads fed to
// the pipeline carry plain text instead of editor output.
package htmlclean

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Options controls the cleaning behavior. The zero value extracts plain text.
type Options struct {
	// PreserveStructure keeps the markup tree and only removes unsafe
	// content; otherwise all tags are dropped and text is flattened.
	PreserveStructure bool
	// RemoveAttributes strips tag attributes when structure is preserved.
	RemoveAttributes bool
}

// Clean removes script and style elements and comments from content, then
// either re-renders the remaining markup or flattens it to whitespace
// normalized plain text.
func Clean(content string, opts Options) (string, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	prune(root)

	if opts.PreserveStructure {
		if opts.RemoveAttributes {
			stripAttributes(root)
		}
		var sb strings.Builder
		if err := html.Render(&sb, root); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
		return sb.String(), nil
	}

	var sb strings.Builder
	collectText(root, &sb)
	return normalizeWhitespace(sb.String()), nil
}

// prune removes script/style subtrees and comment nodes in place.
func prune(n *html.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		switch {
		case child.Type == html.CommentNode:
			n.RemoveChild(child)
		case child.Type == html.ElementNode &&
			(child.DataAtom == atom.Script || child.DataAtom == atom.Style):
			n.RemoveChild(child)
		default:
			prune(child)
		}
		child = next
	}
}

func stripAttributes(n *html.Node) {
	if n.Type == html.ElementNode {
		n.Attr = nil
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		stripAttributes(child)
	}
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, sb)
		// Element boundaries become line breaks so adjacent blocks do
		// not run together; normalization collapses them afterwards.
		if child.Type == html.ElementNode {
			sb.WriteByte('\n')
		}
	}
}

// normalizeWhitespace collapses the text to single-space separated phrases,
// dropping blank lines and runs of spaces left behind by removed markup.
func normalizeWhitespace(text string) string {
	var phrases []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			phrase = strings.TrimSpace(phrase)
			if phrase != "" {
				phrases = append(phrases, phrase)
			}
		}
	}
	return strings.Join(phrases, " ")
}
