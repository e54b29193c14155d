// Package frontmatter separates an optional `---` delimited YAML header from
// the plain-text body of a list file.
package frontmatter

import (
	"bytes"
	"errors"
	"log/slog"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/listbuilder/internal/logfields"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Parse returns the metadata mapping and body of text.
//
// It never fails: text without an opening delimiter, or without a closing
// one, is all body; undecodable or non-mapping metadata yields an empty map.
func Parse(text string) (map[string]any, string) {
	fm, body, had, err := Split([]byte(text))
	if err != nil || !had {
		return map[string]any{}, text
	}
	meta, err := ParseYAML(fm)
	if err != nil {
		slog.Debug("Ignoring malformed front matter", logfields.Error(err))
		return map[string]any{}, string(body)
	}
	return meta, string(body)
}

// Split separates YAML frontmatter (`---` delimited) from the body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. Each delimiter line may end in LF or CRLF independently.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	line, next := readLine(content, 0)
	if !isDelimiter(line) || bytes.IndexByte(content, '\n') < 0 {
		return nil, content, false, nil
	}

	frontmatterStart := next
	for pos := frontmatterStart; pos < len(content); {
		line, next = readLine(content, pos)
		if isDelimiter(line) {
			return content[frontmatterStart:pos], content[next:], true, nil
		}
		pos = next
	}
	return nil, nil, false, ErrMissingClosingDelimiter
}

// readLine returns the line starting at pos without its line ending, and the
// offset of the following line.
func readLine(content []byte, pos int) ([]byte, int) {
	i := bytes.IndexByte(content[pos:], '\n')
	if i < 0 {
		return content[pos:], len(content)
	}
	return content[pos : pos+i], pos + i + 1
}

func isDelimiter(line []byte) bool {
	return bytes.Equal(bytes.TrimSuffix(line, []byte("\r")), []byte(delimiter))
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
// An empty or null document yields an empty map; a non-mapping document is an error.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
