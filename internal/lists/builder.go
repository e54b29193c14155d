package lists

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"git.home.luguber.info/inful/listbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/listbuilder/internal/logfields"
	"git.home.luguber.info/inful/listbuilder/internal/slug"
	"git.home.luguber.info/inful/listbuilder/internal/source"
)

// Builder compiles list files from a Source.
type Builder struct {
	// Suffix selects list files; defaults to ".yml".
	Suffix string
	// Blacklist holds file names that are never lists.
	Blacklist []string
}

// Build walks every category directory of src and compiles its list files.
// Any fetch failure aborts the build.
func (b Builder) Build(ctx context.Context, src source.Source) (*Data, error) {
	suffix := b.Suffix
	if suffix == "" {
		suffix = ".yml"
	}

	entries, err := src.Categories(ctx)
	if err != nil {
		return nil, err
	}

	data := newData()
	for _, cat := range entries {
		if !cat.IsDir() {
			continue
		}
		files, err := src.Files(ctx, cat)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name, suffix) || slices.Contains(b.Blacklist, f.Name) {
				continue
			}
			text, err := src.Read(ctx, f)
			if err != nil {
				return nil, err
			}
			l := compile(cat.Name, strings.TrimSuffix(f.Name, suffix), text)
			if l.Slug == "" {
				slog.Warn("Skipping file with empty slug", logfields.Category(cat.Name), logfields.File(f.Name))
				continue
			}
			if prev, dup := data.Categories[cat.Name][l.Slug]; dup {
				slog.Warn("Slug collision, later file replaces earlier list",
					logfields.Category(cat.Name), logfields.Slug(l.Slug), logfields.Name(prev.Title))
			}
			data.add(l)
			slog.Debug("Compiled list", logfields.Category(cat.Name), logfields.Slug(l.Slug),
				logfields.Count(len(l.Items)), slog.String("fingerprint", l.Fingerprint))
		}
	}

	data.index()

	if len(data.Things) == 0 {
		slog.Warn("No lists found", logfields.Mode(src.Mode()))
	}
	return data, nil
}

// compile turns one file's raw text into a List.
func compile(category, name, text string) *List {
	meta, body := frontmatter.Parse(text)

	items := []string{}
	for line := range strings.Lines(body) {
		if item := strings.TrimSpace(line); item != "" {
			items = append(items, item)
		}
	}

	s := slug.Make(name)
	title := s
	if v, ok := meta["title"]; ok && v != nil {
		switch tv := v.(type) {
		case string, int, int64, float64, bool:
			if t := strings.TrimSpace(fmt.Sprint(tv)); t != "" {
				title = t
			}
		}
	}

	return &List{
		Slug:        s,
		Title:       title,
		Category:    category,
		Items:       items,
		Fingerprint: fingerprintList(title, items),
	}
}
