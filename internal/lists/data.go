package lists

import (
	"maps"
	"slices"
	"strings"

	"github.com/inful/mdfp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// List is one compiled list file ("thing").
type List struct {
	Slug        string   `json:"-"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Items       []string `json:"list"`
	Fingerprint string   `json:"-"`
}

// Thing is a record of the flattened index.
type Thing struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Data holds everything the bundles serialize.
type Data struct {
	// Categories maps category -> slug -> list.
	Categories map[string]map[string]*List
	// Things is the flattened index in (category, slug) order.
	Things []Thing
	// Index maps a lowercased item to its position in Things.
	Index map[string]int
}

func newData() *Data {
	return &Data{
		Categories: map[string]map[string]*List{},
		Things:     []Thing{},
		Index:      map[string]int{},
	}
}

func (d *Data) add(l *List) {
	byslug, ok := d.Categories[l.Category]
	if !ok {
		byslug = map[string]*List{}
		d.Categories[l.Category] = byslug
	}
	byslug[l.Slug] = l
}

// Each calls fn for every list in (category, slug) order.
func (d *Data) Each(fn func(*List)) {
	for _, cat := range slices.Sorted(maps.Keys(d.Categories)) {
		byslug := d.Categories[cat]
		for _, s := range slices.Sorted(maps.Keys(byslug)) {
			fn(byslug[s])
		}
	}
}

// index rebuilds Things and Index from Categories. Later records overwrite
// earlier ones when an item appears in several lists.
func (d *Data) index() {
	d.Things = d.Things[:0]
	clear(d.Index)
	d.Each(func(l *List) {
		pos := len(d.Things)
		d.Things = append(d.Things, Thing{Title: l.Title, Category: l.Category})
		for _, item := range l.Items {
			d.Index[strings.ToLower(item)] = pos
		}
	})
}

// Lookup resolves a phrase case-insensitively, mirroring the bundle's things() helper.
func (d *Data) Lookup(phrase string) (Thing, bool) {
	pos, ok := d.Index[strings.ToLower(phrase)]
	if !ok || pos < 0 || pos >= len(d.Things) {
		return Thing{}, false
	}
	return d.Things[pos], true
}

// Clusters flattens lists to slug -> items in (category, slug) order. A slug
// shared by several categories keeps its first position and takes the items
// of the later category.
func (d *Data) Clusters() *orderedmap.OrderedMap[string, []string] {
	out := orderedmap.New[string, []string]()
	d.Each(func(l *List) {
		out.Set(l.Slug, l.Items)
	})
	return out
}

// Counts returns the number of categories, lists and items.
func (d *Data) Counts() (categories, lists, items int) {
	d.Each(func(l *List) {
		lists++
		items += len(l.Items)
	})
	return len(d.Categories), lists, items
}

// Fingerprint identifies the whole content set; it changes whenever any list does.
func (d *Data) Fingerprint() string {
	var b strings.Builder
	d.Each(func(l *List) {
		b.WriteString(l.Category)
		b.WriteByte('/')
		b.WriteString(l.Slug)
		b.WriteByte(' ')
		b.WriteString(l.Fingerprint)
		b.WriteByte('\n')
	})
	return mdfp.CalculateFingerprintFromParts("", b.String())
}

func fingerprintList(title string, items []string) string {
	return mdfp.CalculateFingerprintFromParts("title: "+title, strings.Join(items, "\n"))
}
