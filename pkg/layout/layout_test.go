package layout

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbrowse/pkg/html"
	"wbrowse/pkg/text"
)

// fakeMeasurer gives every character half the font size in width, and
// splits the size 80/20 between ascent and descent.
type fakeMeasurer struct {
	calls []measureCall
}

type measureCall struct {
	s  string
	st text.Style
}

func (m *fakeMeasurer) Measure(s string, st text.Style) (float64, error) {
	if st.Size <= 0 {
		return 0, fmt.Errorf("%w: %d", text.ErrInvalidSize, st.Size)
	}
	m.calls = append(m.calls, measureCall{s: s, st: st})
	return float64(len(s)) * float64(st.Size) / 2, nil
}

func (m *fakeMeasurer) Metrics(st text.Style) (text.Metrics, error) {
	if st.Size <= 0 {
		return text.Metrics{}, fmt.Errorf("%w: %d", text.ErrInvalidSize, st.Size)
	}
	size := float64(st.Size)
	return text.Metrics{Ascent: 0.8 * size, Descent: 0.2 * size, Linespace: size}, nil
}

// styleOf returns the style the word was measured under.
func (m *fakeMeasurer) styleOf(t *testing.T, word string) text.Style {
	t.Helper()
	for _, c := range m.calls {
		if c.s == word {
			return c.st
		}
	}
	t.Fatalf("word %q was never measured", word)
	return text.Style{}
}

func layoutString(t *testing.T, body string, width float64) ([]Entry, *fakeMeasurer) {
	t.Helper()
	m := &fakeMeasurer{}
	entries, err := Layout(html.Tokenize(body), width, m, DefaultOptions())
	require.NoError(t, err)
	return entries, m
}

func words(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}

func TestLayout_EndToEnd(t *testing.T) {
	entries, m := layoutString(t, "<b>Hi</b> there.<br>New line.", 800)
	require.Equal(t, []string{"Hi", "there.", "New", "line."}, words(entries))

	assert.Equal(t, text.Bold, m.styleOf(t, "Hi").Weight)
	for _, w := range []string{"there.", "New", "line."} {
		assert.Equal(t, text.Normal, m.styleOf(t, w).Weight, w)
	}

	opts := DefaultOptions()
	assert.Equal(t, opts.HStep, entries[0].X)
	assert.Equal(t, entries[0].Y, entries[1].Y)
	assert.Greater(t, entries[1].X, entries[0].X)

	assert.Equal(t, opts.HStep, entries[2].X)
	assert.Greater(t, entries[2].Y, entries[1].Y)
	assert.Equal(t, entries[2].Y, entries[3].Y)

	// baseline = 18 + 1.2*12.8; y = baseline - 12.8
	assert.InDelta(t, 20.56, entries[0].Y, 1e-9)
	// next line starts at baseline + 1.2*3.2
	assert.InDelta(t, 39.76, entries[2].Y, 1e-9)
}

func TestLayout_WordAdvanceIncludesSpace(t *testing.T) {
	entries, _ := layoutString(t, "aaaa bbbb", 800)
	require.Len(t, entries, 2)
	// 4 chars * 8px + one 8px space
	assert.Equal(t, entries[0].X+40, entries[1].X)
}

func TestLayout_LineBreakBeforeOverflow(t *testing.T) {
	// Words are 32px, spaces 8px; usable right edge is 100-13 = 87.
	entries, _ := layoutString(t, "aaaa bbbb cccc", 100)
	require.Len(t, entries, 3)

	assert.Equal(t, entries[0].Y, entries[1].Y)
	assert.Equal(t, 53.0, entries[1].X)

	overflow := entries[2]
	assert.Equal(t, "cccc", overflow.Word)
	assert.Equal(t, DefaultOptions().HStep, overflow.X)
	assert.Greater(t, overflow.Y, entries[1].Y)
}

func TestLayout_LongWordNeverSplit(t *testing.T) {
	entries, _ := layoutString(t, "short extraordinarilylongword", 60)
	require.Equal(t, []string{"short", "extraordinarilylongword"}, words(entries))
	assert.Equal(t, DefaultOptions().HStep, entries[1].X)
	assert.Greater(t, entries[1].Y, entries[0].Y)
}

func TestLayout_SharedBaseline(t *testing.T) {
	entries, _ := layoutString(t, "<big>Big</big> small <small>tiny</small>", 800)
	require.Len(t, entries, 3)

	sizes := []int{entries[0].Font.Style.Size, entries[1].Font.Style.Size, entries[2].Font.Style.Size}
	assert.Equal(t, []int{20, 16, 14}, sizes)

	base := entries[0].Y + entries[0].Font.Metrics.Ascent
	for _, e := range entries[1:] {
		assert.InDelta(t, base, e.Y+e.Font.Metrics.Ascent, 1e-9, e.Word)
	}
	assert.Less(t, entries[0].Y, entries[1].Y)
}

func TestLayout_LineHeightFromTallestWord(t *testing.T) {
	plain, _ := layoutString(t, "a<br>b", 800)
	tall, _ := layoutString(t, "a <big>A</big><br>b", 800)
	require.Len(t, plain, 2)
	require.Len(t, tall, 3)
	assert.Greater(t, tall[2].Y, plain[1].Y)
}

func TestLayout_StyleScoping(t *testing.T) {
	_, m := layoutString(t, "<b>bold</b>normal", 800)
	assert.Equal(t, text.Bold, m.styleOf(t, "bold").Weight)
	assert.Equal(t, text.Normal, m.styleOf(t, "normal").Weight)

	_, m = layoutString(t, "<i>slanted</i>upright", 800)
	assert.Equal(t, text.Italic, m.styleOf(t, "slanted").Slant)
	assert.Equal(t, text.Roman, m.styleOf(t, "upright").Slant)
}

func TestLayout_ParagraphSpacing(t *testing.T) {
	br, _ := layoutString(t, "first<br>second", 800)
	p, _ := layoutString(t, "first</p>second", 800)
	require.Len(t, br, 2)
	require.Len(t, p, 2)

	assert.Equal(t, br[0].Y, p[0].Y)
	assert.Greater(t, p[1].Y, br[1].Y)
	assert.InDelta(t, DefaultOptions().VStep, p[1].Y-br[1].Y, 1e-9)
}

func TestLayout_EmptyFlushIsNoop(t *testing.T) {
	plain, _ := layoutString(t, "x", 800)
	breaks, _ := layoutString(t, "<br><br>x<br>", 800)
	if diff := cmp.Diff(plain, breaks); diff != "" {
		t.Errorf("leading breaks changed the layout (-want +got):\n%s", diff)
	}
}

func TestLayout_UnknownTagsIgnored(t *testing.T) {
	plain, _ := layoutString(t, "one two", 800)
	tagged, _ := layoutString(t, `<div class="x">one</div> <span>two</span><p>`, 800)
	if diff := cmp.Diff(plain, tagged); diff != "" {
		t.Errorf("unknown tags changed the layout (-want +got):\n%s", diff)
	}
}

func TestLayout_WhitespaceOnly(t *testing.T) {
	entries, m := layoutString(t, " \n\t <b>  </b>\n", 800)
	assert.Empty(t, entries)
	assert.Empty(t, m.calls)
}

func TestLayout_DegenerateSize(t *testing.T) {
	body := strings.Repeat("<small>", 8) + "tiny"
	_, err := Layout(html.Tokenize(body), 800, &fakeMeasurer{}, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, text.ErrInvalidSize)
}

func TestLayout_DegenerateSizeWithoutTextIsFine(t *testing.T) {
	body := strings.Repeat("<small>", 10) + strings.Repeat("</small>", 10) + "ok"
	entries, m := layoutString(t, body, 800)
	require.Len(t, entries, 1)
	assert.Equal(t, 16, m.styleOf(t, "ok").Size)
}

func TestLayout_ReadingOrder(t *testing.T) {
	body := strings.Repeat("lorem <b>ipsum</b> <big>dolor</big> sit <small>amet</small>, ", 30) +
		"</p>" + strings.Repeat("<i>consectetur</i> adipiscing<br>", 5)
	entries, _ := layoutString(t, body, 300)
	require.NotEmpty(t, entries)

	// Group entries into lines by their shared baseline.
	type line struct{ top, bottom, lastX float64 }
	var lines []line
	for i, e := range entries {
		baseline := e.Y + e.Font.Metrics.Ascent
		if i == 0 || math.Abs(baseline-(entries[i-1].Y+entries[i-1].Font.Metrics.Ascent)) > 1e-6 {
			lines = append(lines, line{top: e.Y, bottom: e.Y, lastX: e.X})
			continue
		}
		cur := &lines[len(lines)-1]
		assert.Greater(t, e.X, cur.lastX, "x must grow within a line")
		cur.lastX = e.X
		cur.top = min(cur.top, e.Y)
		cur.bottom = max(cur.bottom, e.Y)
	}
	require.Greater(t, len(lines), 5)
	for i := 1; i < len(lines); i++ {
		assert.Greater(t, lines[i].top, lines[i-1].bottom, "line %d", i)
	}
	for _, e := range entries {
		assert.LessOrEqual(t, e.X, 300.0)
	}
}

func TestLayoutTree_MatchesFlatLayout(t *testing.T) {
	body := "<html><body><p>Hello <b>bold <i>both</i></b> <big>big</big></p><p>next</p></body></html>"
	flat, _ := layoutString(t, body, 200)

	treeEntries, err := LayoutTree(html.Parse(body), 200, &fakeMeasurer{}, DefaultOptions())
	require.NoError(t, err)
	if diff := cmp.Diff(flat, treeEntries); diff != "" {
		t.Errorf("tree layout differs from flat layout (-want +got):\n%s", diff)
	}
}

func TestLayoutEngine_Reusable(t *testing.T) {
	le := NewLayoutEngine(800, &fakeMeasurer{}, DefaultOptions())
	first, err := le.Layout(html.Tokenize("<b>one</b> two"))
	require.NoError(t, err)
	second, err := le.Layout(html.Tokenize("<b>one</b> two"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApplyTag(t *testing.T) {
	base := text.DefaultStyle(16)
	tests := []struct {
		tag  string
		want text.Style
		brk  Break
	}{
		{"i", text.Style{Slant: text.Italic, Size: 16}, NoBreak},
		{"/i", base, NoBreak},
		{"b", text.Style{Weight: text.Bold, Size: 16}, NoBreak},
		{"/b", base, NoBreak},
		{"small", text.DefaultStyle(14), NoBreak},
		{"/small", text.DefaultStyle(18), NoBreak},
		{"big", text.DefaultStyle(20), NoBreak},
		{"/big", text.DefaultStyle(12), NoBreak},
		{"br", base, LineBreak},
		{"/p", base, ParagraphBreak},
		{"p", base, NoBreak},
		{"B", base, NoBreak},
		{"", base, NoBreak},
	}
	for _, tt := range tests {
		got, brk := ApplyTag(base, tt.tag)
		assert.Equal(t, tt.want, got, "tag %q", tt.tag)
		assert.Equal(t, tt.brk, brk, "tag %q", tt.tag)
	}
}

func TestApplyTag_SizeDeltasCompound(t *testing.T) {
	st := text.DefaultStyle(16)
	for _, tag := range []string{"small", "small", "big", "/big", "/small", "/small"} {
		st, _ = ApplyTag(st, tag)
	}
	assert.Equal(t, text.DefaultStyle(16), st)

	for i := 0; i < 9; i++ {
		st, _ = ApplyTag(st, "small")
	}
	assert.Equal(t, -2, st.Size)
}

func TestHeight(t *testing.T) {
	assert.Equal(t, 0.0, Height(nil))
	entries, _ := layoutString(t, "a<br>b", 800)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[1].Y+16, Height(entries))
}
