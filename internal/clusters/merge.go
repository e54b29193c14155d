package clusters

import (
	"slices"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const heading = "# Prompt Clusters Data"

// Merge combines a previous generation with freshly fetched terms.
//
// Existing clusters keep their position and associates; their terms are
// replaced when fresh has the key. Keys only in fresh are appended in fresh's
// order with no associates.
func Merge(old *Set, fresh *orderedmap.OrderedMap[string, []string]) *Set {
	merged := NewSet()
	old.Each(func(key string, c *Cluster) {
		terms := c.Terms
		if ft, ok := fresh.Get(key); ok {
			terms = ft
		}
		merged.Put(key, &Cluster{Terms: slices.Clone(terms), Associates: slices.Clone(c.Associates)})
	})
	for pair := fresh.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := merged.Get(pair.Key); ok {
			continue
		}
		merged.Put(pair.Key, &Cluster{Terms: slices.Clone(pair.Value), Associates: []string{}})
	}
	return merged
}

// Render writes the set back to Markdown. The readable form separates terms
// with ", " and clusters with a blank line; the compact form uses bare
// commas and no blank lines. Both parse back to the same set.
func Render(set *Set, compact bool) string {
	sep, pad := ", ", " "
	if compact {
		sep, pad = ",", ""
	}

	parts := []string{heading}
	set.Each(func(key string, c *Cluster) {
		parts = append(parts,
			"### "+escapeLiteral(key),
			"- "+termsLabel+field(c.Terms, sep, pad),
			"- "+associatesLabel+field(c.Associates, sep, pad),
		)
		if !compact {
			parts = append(parts, "")
		}
	})
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func field(values []string, sep, pad string) string {
	if len(values) == 0 {
		return ""
	}
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escapeLiteral(v)
	}
	return pad + strings.Join(escaped, sep)
}
