package clusters

import (
	"errors"
	"regexp"
	"strings"
)

// ErrBlockNotFound is returned when the input has no allPromptDataMarkdown literal.
var ErrBlockNotFound = errors.New("couldn't find allPromptDataMarkdown block")

// blockPattern matches the template literal, skipping escaped characters so
// an escaped backtick inside the block does not end it.
var blockPattern = regexp.MustCompile("(const\\s+allPromptDataMarkdown\\s*=\\s*`)((?:\\\\[\\s\\S]|[^\\\\`])*)(`;)")

// Block locates the cluster Markdown inside a JavaScript file.
type Block struct {
	Prefix   string // "const allPromptDataMarkdown = `"
	Markdown string // trimmed block content
	Suffix   string // "`;"
	Start    int    // offset of Prefix in the file
	End      int    // offset just past Suffix
}

// Extract finds the first cluster block in js.
func Extract(js string) (Block, error) {
	m := blockPattern.FindStringSubmatchIndex(js)
	if m == nil {
		return Block{}, ErrBlockNotFound
	}
	return Block{
		Prefix:   js[m[2]:m[3]],
		Markdown: strings.TrimSpace(js[m[4]:m[5]]),
		Suffix:   js[m[6]:m[7]],
		Start:    m[0],
		End:      m[1],
	}, nil
}

// Replace substitutes md for the block content, keeping everything before
// and after the block untouched.
func Replace(js string, b Block, md string) string {
	var out strings.Builder
	out.Grow(len(js) - (b.End - b.Start) + len(b.Prefix) + len(md) + len(b.Suffix) + 2)
	out.WriteString(js[:b.Start])
	out.WriteString(b.Prefix)
	out.WriteByte('\n')
	out.WriteString(md)
	out.WriteByte('\n')
	out.WriteString(b.Suffix)
	out.WriteString(js[b.End:])
	return out.String()
}

var (
	literalEscaper   = strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${")
	literalUnescaper = strings.NewReplacer("\\\\", "\\", "\\`", "`", "\\${", "${")
)

// escapeLiteral makes s safe inside a JavaScript template literal.
func escapeLiteral(s string) string { return literalEscaper.Replace(s) }

func unescapeLiteral(s string) string { return literalUnescaper.Replace(s) }
