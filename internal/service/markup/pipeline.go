package markup

import "sort"

// Step is one named, pure transform over serialized HTML.
type Step struct {
	Name  string
	Apply func(string) string
}

// Pipeline applies its steps in order. Order is significant.
type Pipeline struct {
	name  string
	steps []Step
}

// Step names shared by several pipelines
const (
	StepRewriteLinks         = "rewrite-links"
	StepStripEmptyParagraphs = "strip-empty-paragraphs"
	StepClampWidths          = "clamp-widths"
)

// Pipeline names
const (
	PipelineLive     = "live"
	PipelineFinal    = "final"
	PipelineFallback = "fallback"
	PipelinePaste    = "paste"
)

// NewPipeline creates a pipeline from steps
func NewPipeline(name string, steps ...Step) *Pipeline {
	return &Pipeline{name: name, steps: steps}
}

// Name returns the pipeline name for logging
func (p *Pipeline) Name() string { return p.name }

// StepNames lists the steps in execution order
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Run applies every step in order
func (p *Pipeline) Run(html string) string {
	for _, s := range p.steps {
		html = s.Apply(html)
	}
	return html
}

// Pipelines is the set of pipelines used by editor sessions.
type Pipelines struct {
	// Live normalizes content for liveUpdate messages
	Live *Pipeline
	// Final produces the authoritative change value (links rewritten)
	Final *Pipeline
	// Fallback answers requestContent before the editor is ready
	Fallback *Pipeline
	// Paste cleans pasted office/web markup
	Paste *Pipeline
}

// NewPipelines builds the session pipelines for a column width
func NewPipelines(columnWidth int) *Pipelines {
	strip := Step{Name: StepStripEmptyParagraphs, Apply: StripEmptyParagraphs}
	clamp := Step{Name: StepClampWidths, Apply: func(s string) string { return ClampWidths(s, columnWidth) }}

	return &Pipelines{
		Live:     NewPipeline(PipelineLive, strip, clamp),
		Final:    NewPipeline(PipelineFinal, Step{Name: StepRewriteLinks, Apply: RewriteLinks}, strip, clamp),
		Fallback: NewPipeline(PipelineFallback, strip, clamp),
		Paste:    NewPipeline(PipelinePaste, PasteSteps(columnWidth)...),
	}
}

// Lookup returns a pipeline by name
func (ps *Pipelines) Lookup(name string) (*Pipeline, bool) {
	switch name {
	case PipelineLive:
		return ps.Live, true
	case PipelineFinal:
		return ps.Final, true
	case PipelineFallback:
		return ps.Fallback, true
	case PipelinePaste:
		return ps.Paste, true
	}
	return nil, false
}

// Names lists the available pipeline names, sorted
func (ps *Pipelines) Names() []string {
	names := []string{PipelineLive, PipelineFinal, PipelineFallback, PipelinePaste}
	sort.Strings(names)
	return names
}
