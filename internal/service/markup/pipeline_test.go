package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelines_StepOrder(t *testing.T) {
	ps := NewPipelines(600)

	assert.Equal(t, []string{StepStripEmptyParagraphs, StepClampWidths}, ps.Live.StepNames())
	assert.Equal(t, []string{StepRewriteLinks, StepStripEmptyParagraphs, StepClampWidths}, ps.Final.StepNames())
	assert.Equal(t, []string{StepStripEmptyParagraphs, StepClampWidths}, ps.Fallback.StepNames())
	assert.Len(t, ps.Paste.StepNames(), 14)
}

func TestPipelines_LiveNeverAddsMarker(t *testing.T) {
	ps := NewPipelines(600)
	doc := `<p></p><p><a href="example.com">x</a></p><img width="900">`

	live := ps.Live.Run(doc)
	assert.NotContains(t, live, "HTTPGetWrap|")
	assert.Equal(t, `<p><a href="example.com">x</a></p><img width="600">`, live)

	final := ps.Final.Run(doc)
	assert.Equal(t, `<p><a href="HTTPGetWrap|https://example.com/">x</a></p><img width="600">`, final)

	fallback := ps.Fallback.Run(doc)
	assert.Equal(t, live, fallback)
}

func TestPipelines_FinalIdempotent(t *testing.T) {
	ps := NewPipelines(600)
	doc := `<p>&nbsp;</p><a href="https://a.org/b">b</a><table width=1000><tr><td>x</td></tr></table>`

	once := ps.Final.Run(doc)
	assert.Equal(t, once, ps.Final.Run(once))
}

func TestPipelines_Lookup(t *testing.T) {
	ps := NewPipelines(600)

	for _, name := range ps.Names() {
		p, ok := ps.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, p.Name())
	}

	_, ok := ps.Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"fallback", "final", "live", "paste"}, ps.Names())
}

func TestPipeline_EmptyRunsIdentity(t *testing.T) {
	p := NewPipeline("empty")
	assert.Equal(t, "<p>x</p>", p.Run("<p>x</p>"))
	assert.Empty(t, p.StepNames())
}
