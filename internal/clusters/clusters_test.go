package clusters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const sampleJS = "import x from './x.js';\n\n" +
	"const allPromptDataMarkdown = `\n" +
	"# Prompt Clusters Data\n" +
	"### animals\n" +
	"- terms: cat, dog\n" +
	"- associates: pet, fur\n" +
	"\n" +
	"### colors\n" +
	"- terms: red\n" +
	"- associates:\n" +
	"`;\n\n" +
	"export default allPromptDataMarkdown;\n"

func set(t *testing.T, entries ...any) *Set {
	t.Helper()
	s := NewSet()
	for i := 0; i < len(entries); i += 3 {
		s.Put(entries[i].(string), &Cluster{Terms: entries[i+1].([]string), Associates: entries[i+2].([]string)})
	}
	return s
}

// fresh builds fetched terms from key, terms pairs, keeping argument order.
func fresh(entries ...any) *orderedmap.OrderedMap[string, []string] {
	m := orderedmap.New[string, []string]()
	for i := 0; i < len(entries); i += 2 {
		m.Set(entries[i].(string), entries[i+1].([]string))
	}
	return m
}

func TestExtract(t *testing.T) {
	b, err := Extract(sampleJS)
	require.NoError(t, err)
	assert.Equal(t, "const allPromptDataMarkdown = `", b.Prefix)
	assert.Equal(t, "`;", b.Suffix)
	assert.True(t, strings.HasPrefix(b.Markdown, "# Prompt Clusters Data\n### animals"))
	assert.True(t, strings.HasSuffix(b.Markdown, "- associates:"), "block content is trimmed")
	assert.Equal(t, "import x from './x.js';\n\n", sampleJS[:b.Start])
	assert.Equal(t, "\n\nexport default allPromptDataMarkdown;\n", sampleJS[b.End:])
}

func TestExtract_Missing(t *testing.T) {
	_, err := Extract("const somethingElse = `x`;")
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestParse(t *testing.T) {
	b, err := Extract(sampleJS)
	require.NoError(t, err)

	got := Parse(b.Markdown)
	want := set(t,
		"animals", []string{"cat", "dog"}, []string{"pet", "fur"},
		"colors", []string{"red"}, []string{},
	)
	assert.True(t, want.Equal(got), "got keys %v", got.Keys())
}

func TestParse_IgnoresNoise(t *testing.T) {
	md := "# Prompt Clusters Data\n" +
		"- terms: orphan\n" +
		"## not a cluster\n" +
		"### a\n" +
		"some paragraph\n\n" +
		"- other: x\n" +
		"- terms:1,2\n"
	got := Parse(md)
	require.Equal(t, []string{"a"}, got.Keys())
	c, _ := got.Get("a")
	assert.Equal(t, []string{"1", "2"}, c.Terms)
	assert.Equal(t, []string{}, c.Associates)
}

func TestParse_IndentedBlock(t *testing.T) {
	md := "    ### a\n    - terms: x, y\n    - associates: z\n"
	got := Parse(md)
	c, ok := got.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, c.Terms)
	assert.Equal(t, []string{"z"}, c.Associates)
}

func TestMerge_Law(t *testing.T) {
	old := set(t, "a", []string{"1"}, []string{"x"})
	merged := Merge(old, fresh("a", []string{"2"}))

	want := set(t, "a", []string{"2"}, []string{"x"})
	assert.True(t, want.Equal(merged))
}

func TestMerge_OrderAndNewKeys(t *testing.T) {
	old := set(t,
		"zeta", []string{"z"}, []string{"keep"},
		"alpha", []string{"a"}, []string{},
	)
	merged := Merge(old, fresh(
		"new2", []string{"n2"},
		"alpha", []string{"a1", "a2"},
		"new1", []string{"n1"},
	))

	// New keys follow fetch order, not key order.
	assert.Equal(t, []string{"zeta", "alpha", "new2", "new1"}, merged.Keys())
	zeta, _ := merged.Get("zeta")
	assert.Equal(t, []string{"z"}, zeta.Terms, "terms retained when not refreshed")
	assert.Equal(t, []string{"keep"}, zeta.Associates)
	alpha, _ := merged.Get("alpha")
	assert.Equal(t, []string{"a1", "a2"}, alpha.Terms)
	n1, _ := merged.Get("new1")
	assert.Equal(t, []string{}, n1.Associates)

	// old is not modified
	oldAlpha, _ := old.Get("alpha")
	assert.Equal(t, []string{"a"}, oldAlpha.Terms)
}

func TestRender(t *testing.T) {
	s := set(t,
		"animals", []string{"cat", "dog"}, []string{"pet"},
		"colors", []string{"red"}, []string{},
	)

	assert.Equal(t, "# Prompt Clusters Data\n"+
		"### animals\n- terms: cat, dog\n- associates: pet\n\n"+
		"### colors\n- terms: red\n- associates:", Render(s, false))

	assert.Equal(t, "# Prompt Clusters Data\n"+
		"### animals\n- terms:cat,dog\n- associates:pet\n"+
		"### colors\n- terms:red\n- associates:", Render(s, true))
}

func TestRender_CompactAndReadableParseEqual(t *testing.T) {
	s := set(t,
		"animals", []string{"cat", "big dog", "naïve `quoted` ${x}"}, []string{"pet", "fur"},
		"empty", []string{}, []string{},
		"colors", []string{"red"}, []string{"warm"},
	)

	readable := Parse(Render(s, false))
	compact := Parse(Render(s, true))

	assert.True(t, s.Equal(readable), "readable keys %v", readable.Keys())
	assert.True(t, s.Equal(compact), "compact keys %v", compact.Keys())
}

func TestReplace_KeepsSurroundingsAndSuffix(t *testing.T) {
	b, err := Extract(sampleJS)
	require.NoError(t, err)

	merged := Merge(Parse(b.Markdown), fresh("animals", []string{"cow"}, "shapes", []string{"circle"}))
	out := Replace(sampleJS, b, Render(merged, false))

	assert.Contains(t, out, "import x from './x.js';\n\nconst allPromptDataMarkdown = `\n# Prompt Clusters Data\n")
	assert.Contains(t, out, "- terms: cow\n- associates: pet, fur")
	assert.Contains(t, out, "### shapes\n- terms: circle\n- associates:\n`;\n\nexport default allPromptDataMarkdown;\n")

	// The rewritten file is itself mergeable and stable.
	b2, err := Extract(out)
	require.NoError(t, err)
	again := Replace(out, b2, Render(Parse(b2.Markdown), false))
	assert.Equal(t, out, again)
}

func TestReplace_EscapedBacktickStaysInsideBlock(t *testing.T) {
	s := set(t, "code", []string{"a`;b"}, []string{})
	js := "const allPromptDataMarkdown = `x`;\nconst tail = 1;\n"
	b, err := Extract(js)
	require.NoError(t, err)

	out := Replace(js, b, Render(s, true))
	b2, err := Extract(out)
	require.NoError(t, err)
	c, ok := Parse(b2.Markdown).Get("code")
	require.True(t, ok)
	assert.Equal(t, []string{"a`;b"}, c.Terms)
	assert.Contains(t, out[b2.End:], "const tail = 1;")
}
