package clusters

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	termsLabel      = "terms:"
	associatesLabel = "associates:"
)

// Parse reads the cluster Markdown. Level-3 headings open a cluster; the
// "- terms:" and "- associates:" list items that follow fill it. Anything
// else is ignored.
func Parse(md string) *Set {
	// Lines are dedented first so an indented block is not read as code.
	lines := strings.Split(md, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	source := []byte(strings.Join(lines, "\n"))

	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	set := NewSet()
	var current *Cluster
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.Heading:
			if node.Level != 3 {
				continue
			}
			key := unescapeLiteral(firstLine(node, source))
			if key == "" {
				current = nil
				continue
			}
			current = &Cluster{Terms: []string{}, Associates: []string{}}
			set.Put(key, current)
		case *gmast.List:
			if current == nil {
				continue
			}
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				line := firstLine(item.FirstChild(), source)
				switch {
				case strings.HasPrefix(line, termsLabel):
					current.Terms = splitTerms(line[len(termsLabel):])
				case strings.HasPrefix(line, associatesLabel):
					current.Associates = splitTerms(line[len(associatesLabel):])
				}
			}
		}
	}
	return set
}

// firstLine returns the trimmed raw text of the first source line of n.
func firstLine(n gmast.Node, source []byte) string {
	if n == nil || n.Lines().Len() == 0 {
		return ""
	}
	seg := n.Lines().At(0)
	return strings.TrimSpace(string(seg.Value(source)))
}

func splitTerms(s string) []string {
	out := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, unescapeLiteral(t))
		}
	}
	return out
}
